package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/explorer"
	"github.com/snailsynk/snailsynk-go/internal/prefs"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

func newFilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Browse and manage shared files",
	}

	model := func() *explorer.Model {
		return explorer.NewModel(app.client, app.dialogs, app.notifier)
	}

	var (
		listPath   string
		sortKey    string
		descending bool
		grouping   string
		filter     string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()

				// Sort and grouping persist between runs; explicit flags
				// win and become the new default.
				store, err := prefs.Open(ctx, app.cfg.StateDir)
				if err == nil {
					defer store.Close()
					if !cmd.Flags().Changed("sort") {
						sortKey, _ = store.Get(ctx, prefs.KeySortKey, sortKey)
					} else {
						store.Set(ctx, prefs.KeySortKey, sortKey)
					}
					if !cmd.Flags().Changed("desc") {
						asc, _ := store.GetBool(ctx, prefs.KeySortAscending, !descending)
						descending = !asc
					} else {
						store.SetBool(ctx, prefs.KeySortAscending, !descending)
					}
					if !cmd.Flags().Changed("group") {
						grouping, _ = store.Get(ctx, prefs.KeyGrouping, grouping)
					} else {
						store.Set(ctx, prefs.KeyGrouping, grouping)
					}
				}

				m.SetOptions(explorer.ViewOptions{
					Key:       explorer.SortKey(sortKey),
					Ascending: !descending,
					Grouping:  explorer.Grouping(grouping),
					Filter:    filter,
				})
				if err := m.Navigate(ctx, listPath); err != nil {
					return err
				}
				if m.FolderLocked() {
					if err := m.UnlockFolder(ctx); err != nil {
						return err
					}
				}
				for _, e := range m.View() {
					marker := " "
					if e.IsLocked {
						marker = "*"
					}
					mtime := time.Unix(int64(e.MTime), 0).Format("2006-01-02 15:04")
					fmt.Printf("%s %-6s %s  %s\n", marker, e.Type, mtime, e.Name)
				}
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&listPath, "path", "", "folder path, empty for root")
	listCmd.Flags().StringVar(&sortKey, "sort", "name", "sort key: name or mtime")
	listCmd.Flags().BoolVar(&descending, "desc", false, "sort descending")
	listCmd.Flags().StringVar(&grouping, "group", "folders-first", "grouping: folders-first, files-first or none")
	listCmd.Flags().StringVar(&filter, "filter", "", "substring filter")
	cmd.AddCommand(listCmd)

	var downloadPath, downloadOut string
	downloadCmd := &cobra.Command{
		Use:   "download <name>",
		Short: "Download a file, prompting for the password when locked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Navigate(ctx, downloadPath); err != nil {
					return err
				}
				rc, err := m.DownloadEntry(ctx, args[0])
				if err != nil || rc == nil {
					return err
				}
				defer rc.Close()
				out := downloadOut
				if out == "" {
					out = filepath.Base(args[0])
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				_, err = io.Copy(f, rc)
				return err
			})
		},
	}
	downloadCmd.Flags().StringVar(&downloadPath, "path", "", "folder containing the file")
	downloadCmd.Flags().StringVar(&downloadOut, "out", "", "output file, defaults to the entry name")
	cmd.AddCommand(downloadCmd)

	var zipPath, zipOut string
	zipCmd := &cobra.Command{
		Use:   "download-selected <name>...",
		Short: "Download several files as a zip archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Navigate(ctx, zipPath); err != nil {
					return err
				}
				m.Select(args)
				rc, err := m.DownloadSelected(ctx)
				if err != nil || rc == nil {
					return err
				}
				defer rc.Close()
				f, err := os.Create(zipOut)
				if err != nil {
					return err
				}
				defer f.Close()
				_, err = io.Copy(f, rc)
				return err
			})
		},
	}
	zipCmd.Flags().StringVar(&zipPath, "path", "", "folder containing the files")
	zipCmd.Flags().StringVar(&zipOut, "out", "selected_files.zip", "output archive")
	cmd.AddCommand(zipCmd)

	var uploadPath string
	uploadCmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files to a folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Navigate(ctx, uploadPath); err != nil {
					return err
				}
				var files []transport.UploadFile
				for _, name := range args {
					f, err := os.Open(name)
					if err != nil {
						return err
					}
					defer f.Close()
					info, err := f.Stat()
					if err != nil {
						return err
					}
					files = append(files, transport.UploadFile{
						Name:   filepath.Base(name),
						Reader: f,
						Size:   info.Size(),
					})
				}
				handle := m.Upload(ctx, files, func(sent, total int64) {
					fmt.Fprintf(os.Stderr, "\r%d/%d bytes", sent, total)
				})
				err := handle.Wait()
				fmt.Fprintln(os.Stderr)
				return err
			})
		},
	}
	uploadCmd.Flags().StringVar(&uploadPath, "path", "", "destination folder")
	cmd.AddCommand(uploadCmd)

	var movePath string
	moveCmd := &cobra.Command{
		Use:   "move <name> <dest-folder>",
		Short: "Move a file to another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Navigate(ctx, movePath); err != nil {
					return err
				}
				return m.Move(ctx, args[0], args[1])
			})
		},
	}
	moveCmd.Flags().StringVar(&movePath, "path", "", "folder containing the file")
	cmd.AddCommand(moveCmd)

	for _, sub := range []struct {
		use, short string
		op         func(m *explorer.Model, ctx context.Context, name string) error
	}{
		{"lock <name>", "Password-protect a file", func(m *explorer.Model, ctx context.Context, name string) error { return m.Lock(ctx, name) }},
		{"unlock <name>", "Remove a file's password", func(m *explorer.Model, ctx context.Context, name string) error { return m.Unlock(ctx, name) }},
		{"delete <name>", "Delete a file", func(m *explorer.Model, ctx context.Context, name string) error { return m.Delete(ctx, name) }},
	} {
		op := sub.op
		c := &cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.run(func(ctx context.Context) error {
					m := model()
					path, _ := cmd.Flags().GetString("path")
					if err := m.Navigate(ctx, path); err != nil {
						return err
					}
					return op(m, ctx, args[0])
				})
			},
		}
		c.Flags().String("path", "", "folder containing the file")
		cmd.AddCommand(c)
	}

	for _, sub := range []struct {
		use, short string
		batch      func(m *explorer.Model, ctx context.Context) error
	}{
		{"lock-batch <name>...", "Lock several files under one password", func(m *explorer.Model, ctx context.Context) error { return m.LockSelected(ctx) }},
		{"unlock-batch <name>...", "Unlock several files", func(m *explorer.Model, ctx context.Context) error { return m.UnlockSelected(ctx) }},
		{"delete-batch <name>...", "Delete several files", func(m *explorer.Model, ctx context.Context) error { return m.DeleteSelected(ctx) }},
	} {
		batch := sub.batch
		c := &cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.run(func(ctx context.Context) error {
					m := model()
					path, _ := cmd.Flags().GetString("path")
					if err := m.Navigate(ctx, path); err != nil {
						return err
					}
					m.Select(args)
					return batch(m, ctx)
				})
			},
		}
		c.Flags().String("path", "", "folder containing the files")
		cmd.AddCommand(c)
	}

	var mkdirPath string
	mkdirCmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Navigate(ctx, mkdirPath); err != nil {
					return err
				}
				return m.CreateFolder(ctx, args[0])
			})
		},
	}
	mkdirCmd.Flags().StringVar(&mkdirPath, "path", "", "parent folder")
	cmd.AddCommand(mkdirCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "folders",
		Short: "List every folder path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				folders, err := model().Folders(ctx)
				if err != nil {
					return err
				}
				for _, f := range folders {
					fmt.Println(f)
				}
				return nil
			})
		},
	})

	return cmd
}
