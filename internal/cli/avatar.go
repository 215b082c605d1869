package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avdeevlv/vitrina/internal/avatar"
)

// NewAvatarCommand manages the persisted avatar crop transform.
func NewAvatarCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Persist and restore the avatar crop transform",
	}
	cmd.AddCommand(newAvatarSaveCommand(opts))
	cmd.AddCommand(newAvatarShowCommand(opts))
	return cmd
}

// newAvatarSaveCommand converts a pixel transform captured in one
// container into percent form and persists it.
func newAvatarSaveCommand(opts *RootOptions) *cobra.Command {
	var (
		scale  float64
		tx, ty float64
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a pixel crop captured in a given container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := avatar.PixelsToPercent(
				avatar.PixelTransform{Scale: scale, TranslateX: tx, TranslateY: ty},
				width, height)
			if err != nil {
				return WrapExitError(ExitCommandError, "convert transform", err)
			}

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sess.SaveAvatarTransform(cmd.Context(), pct); err != nil {
				return WrapExitError(ExitCommandError, "save transform", err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(pct, fmt.Sprintf("scale=%g tx=%g%% ty=%g%%", pct.Scale, pct.TranslateX, pct.TranslateY))
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 1, "gesture scale")
	cmd.Flags().Float64Var(&tx, "tx", 0, "translation X in pixels")
	cmd.Flags().Float64Var(&ty, "ty", 0, "translation Y in pixels")
	cmd.Flags().Float64Var(&width, "width", 0, "container width in pixels")
	cmd.Flags().Float64Var(&height, "height", 0, "container height in pixels")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

// newAvatarShowCommand restores the persisted crop into pixels for a
// possibly different container.
func newAvatarShowCommand(opts *RootOptions) *cobra.Command {
	var (
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the saved crop for a container size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			pct, ok, err := a.sess.AvatarTransform(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "read transform", err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if !ok {
				return f.Success(map[string]bool{"saved": false}, "Кадрирование не сохранено.")
			}

			px, err := avatar.PercentToPixels(pct, width, height)
			if err != nil {
				return WrapExitError(ExitCommandError, "convert transform", err)
			}
			return f.Success(px, fmt.Sprintf("scale=%g tx=%gpx ty=%gpx", px.Scale, px.TranslateX, px.TranslateY))
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "container width in pixels")
	cmd.Flags().Float64Var(&height, "height", 0, "container height in pixels")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}
