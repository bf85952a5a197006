package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/pages"
)

// photosCommand creates the photos command group.
func (c *CLI) photosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List, upload and manage menu photos",
	}

	cmd.AddCommand(c.photosListCommand())
	cmd.AddCommand(c.photosGetCommand())
	cmd.AddCommand(c.photosUploadCommand())
	cmd.AddCommand(c.photosUpdateCommand())
	cmd.AddCommand(c.photosDeleteCommand())
	cmd.AddCommand(c.photosRefreshURLCommand())

	return cmd
}

func (c *CLI) photosListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			photos, err := client.Photos().List(cmd.Context())
			if err != nil {
				return err
			}
			if len(photos) == 0 {
				printInfo("No photos yet")
				return nil
			}

			rows := make([][]string, 0, len(photos))
			for _, p := range photos {
				rows = append(rows, []string{p.ID, string(p.Type), truncate(p.Caption, 40), truncate(p.URL, 50)})
			}
			printTable([]string{"ID", "Type", "Caption", "URL"}, rows)
			return nil
		},
	}
}

func (c *CLI) photosGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			p, err := client.Photos().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPhoto(p)
			return nil
		},
	}
}

// photoFlags are the editable fields of a photo.
type photoFlags struct {
	caption string
	kind    string
}

func (f *photoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.caption, "caption", "", fmt.Sprintf("caption, up to %d characters", pages.MaxCaptionLength))
	cmd.Flags().StringVarP(&f.kind, "type", "t", string(canvas.DefaultKind), "card style: postcard, polaroid")
}

func (c *CLI) photosUploadCommand() *cobra.Command {
	var f photoFlags
	cmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an image to the photo menu",
		Long: `Upload an image to the photo menu.

The file must be an image; its type is sniffed from the content. Captions
longer than the limit are cut.`,
		Example: `  dnhouse photos upload beach.jpg --caption "Bali" -t polaroid`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			form, err := uploadForm(client.Photos(), args[0], f)
			if err != nil {
				return err
			}

			file := form.File()
			bar := newUploadBar(cmd.ErrOrStderr(), file.Name)
			p, err := client.Photos().Upload(cmd.Context(), backend.PhotoUpload{
				Filename:    file.Name,
				ContentType: file.ContentType,
				Data:        file.Data,
				Caption:     form.Caption,
				Type:        form.Type,
				Progress:    bar,
			})
			_ = bar.Finish()
			if err != nil {
				return err
			}
			c.invalidatePhotos(cmd.Context(), client)
			printSuccess(pages.MsgUploaded)
			printPhoto(p)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// uploadForm fills the upload page form from the command line. The form
// applies the same checks as the site: image files only, caption limit,
// known card style.
func uploadForm(store pages.PhotoUploader, path string, f photoFlags) (*pages.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	form := pages.NewUpload(store)
	if !form.SelectFile(filepath.Base(path), "", data) {
		return nil, fmt.Errorf("%s: %s", path, form.Status.Text)
	}
	form.SetCaption(f.caption)
	if err := form.SetType(f.kind); err != nil {
		return nil, err
	}
	return form, nil
}

// newUploadBar returns a byte counter for the request body. The multipart
// body is a little larger than the file, so the total is left open.
func newUploadBar(w io.Writer, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Uploading "+name),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (c *CLI) photosUpdateCommand() *cobra.Command {
	var (
		f     photoFlags
		image string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a photo's caption, style or image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient()
			if err != nil {
				return err
			}
			in, err := c.photoUpdate(ctx, client.Photos(), args[0], cmd, f, image)
			if err != nil {
				return err
			}
			p, err := client.Photos().Update(ctx, args[0], in)
			if err != nil {
				return err
			}
			c.invalidatePhotos(ctx, client)
			printSuccess("Photo updated")
			printPhoto(p)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&image, "image", "", "replace the image with this file")
	return cmd
}

// photoUpdate builds the update form. Fields whose flags were not given keep
// the stored value, since the backend overwrites caption and type on every
// update.
func (c *CLI) photoUpdate(ctx context.Context, photos *backend.Photos, id string, cmd *cobra.Command, f photoFlags, image string) (backend.PhotoUpload, error) {
	cur, err := photos.Get(ctx, id)
	if err != nil {
		return backend.PhotoUpload{}, err
	}
	flags := cmd.Flags()
	if !flags.Changed("caption") {
		f.caption = cur.Caption
	}
	if !flags.Changed("type") && cur.Type.Valid() {
		f.kind = string(cur.Type)
	}

	if image == "" {
		form := pages.NewUpload(photos)
		form.SetCaption(f.caption)
		if err := form.SetType(f.kind); err != nil {
			return backend.PhotoUpload{}, err
		}
		return backend.PhotoUpload{Caption: form.Caption, Type: form.Type}, nil
	}

	form, err := uploadForm(photos, image, f)
	if err != nil {
		return backend.PhotoUpload{}, err
	}
	file := form.File()
	return backend.PhotoUpload{
		Filename:    file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
		Caption:     form.Caption,
		Type:        form.Type,
	}, nil
}

func (c *CLI) photosDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			res, err := client.Photos().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.invalidatePhotos(cmd.Context(), client)
			printSuccess("%s", resultMessage(res, "Photo deleted"))
			return nil
		},
	}
}

func (c *CLI) photosRefreshURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-url <id>",
		Short: "Ask the backend for a fresh image URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			p, err := client.Photos().RefreshURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("URL refreshed")
			printPhoto(p)
			return nil
		},
	}
}

func printPhoto(p backend.Photo) {
	printKeyValue("ID", p.ID)
	printKeyValue("Type", string(p.Type))
	printKeyValue("Caption", p.Caption)
	printKeyValue("URL", StyleLink.Render(p.URL))
}
