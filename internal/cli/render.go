package cli

import (
	"fmt"
	"strings"

	"github.com/avdeevlv/vitrina/internal/cart"
	"github.com/avdeevlv/vitrina/internal/catalog"
	"github.com/avdeevlv/vitrina/internal/friends"
)

// renderCards lays product cards out one per line. Output is plain and
// column-aligned so golden files stay stable.
func renderCards(cards []catalog.Card) string {
	if len(cards) == 0 {
		return "Ничего не найдено."
	}
	var b strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&b, "%-8s %-12s %-28s %8s ₽", c.ID, c.Brand, c.Name, c.EffectivePrice())
		if c.OnSale() {
			fmt.Fprintf(&b, "  (было %s ₽)", c.Price)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Всего: %d", len(cards))
	return b.String()
}

// renderFriends lays relationship records out one per line.
func renderFriends(items []friends.Item) string {
	if len(items) == 0 {
		return "Пока никого нет."
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%-8s %-12s %s\n", item.User.ID, item.User.Username, item.Status)
	}
	fmt.Fprintf(&b, "Всего: %d", len(items))
	return b.String()
}

// renderCartItems lays cart lines out one per line, without the opaque
// line ids (they carry a random suffix).
func renderCartItems(items []cart.Item) string {
	if len(items) == 0 {
		return "Корзина пуста."
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%-8s %-28s размер %-3s x%d  %8s ₽  доставка %s ₽ (%d-%d дн.)\n",
			item.Card.ID, item.Card.Name, item.Size, item.Quantity,
			item.Subtotal(), item.Delivery.Cost, item.Delivery.MinDays, item.Delivery.MaxDays)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderAddress lays the shipping profile out field by field.
func renderAddress(addr cart.ShippingAddress) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Имя:     %s\n", addr.Name)
	fmt.Fprintf(&b, "Телефон: %s\n", addr.Phone)
	fmt.Fprintf(&b, "Город:   %s\n", addr.City)
	fmt.Fprintf(&b, "Адрес:   %s %s", addr.Street, addr.House)
	if addr.Apartment != "" {
		fmt.Fprintf(&b, ", кв. %s", addr.Apartment)
	}
	fmt.Fprintf(&b, "\nИндекс:  %s", addr.PostalCode)
	return b.String()
}
