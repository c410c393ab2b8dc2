package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/notes"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage admin notes",
	}

	model := func() *notes.Model {
		return notes.NewModel(app.client, app.dialogs, app.notifier)
	}

	var treeFolder string
	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the notes tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				m.SetFolderFilter(treeFolder)
				if err := m.RefreshTree(ctx); err != nil {
					return err
				}
				printTree(m.Tree(), 0)
				return nil
			})
		},
	}
	treeCmd.Flags().StringVar(&treeFolder, "folder", "", "show only this top-level folder")
	cmd.AddCommand(treeCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <path>",
		Short: "Print a note's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Open(ctx, args[0]); err != nil {
					return err
				}
				_, content, _ := m.Current()
				fmt.Println(content)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <path>",
		Short: "Write a note from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				m := model()
				if err := m.Open(ctx, args[0]); err != nil {
					return err
				}
				m.SetContent(string(data))
				return m.Save(ctx)
			})
		},
	})

	var createType string
	createCmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Create a note or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().Create(ctx, args[0], createType)
			})
		},
	}
	createCmd.Flags().StringVar(&createType, "type", "file", "item type: file or folder")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a note or folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().Rename(ctx, args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move <path> <dest-folder>",
		Short: "Move a note or folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().Move(ctx, args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <path>...",
		Short: "Delete notes or folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if len(args) == 1 {
					return m.Delete(ctx, args[0])
				}
				return m.DeleteBatch(ctx, args)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "duplicate <path>",
		Short: "Copy a note next to itself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().Duplicate(ctx, args[0])
			})
		},
	})

	var downloadOut string
	downloadCmd := &cobra.Command{
		Use:   "download <path>...",
		Short: "Download notes as a zip archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				rc, err := model().Download(ctx, args)
				if err != nil {
					return err
				}
				defer rc.Close()
				f, err := os.Create(downloadOut)
				if err != nil {
					return err
				}
				defer f.Close()
				_, err = io.Copy(f, rc)
				return err
			})
		},
	}
	downloadCmd.Flags().StringVar(&downloadOut, "out", "notes.zip", "output archive")
	cmd.AddCommand(downloadCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "export <path>",
		Short: "Render a note as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Open(ctx, args[0]); err != nil {
					return err
				}
				html, err := m.ExportHTML()
				if err != nil {
					return err
				}
				fmt.Println(html)
				return nil
			})
		},
	})

	return cmd
}

func printTree(nodes []protocol.NoteNode, depth int) {
	for _, n := range nodes {
		indent := strings.Repeat("  ", depth)
		if n.Type == "folder" {
			fmt.Printf("%s%s/\n", indent, n.Name)
			printTree(n.Children, depth+1)
		} else {
			fmt.Printf("%s%s\n", indent, n.Name)
		}
	}
}
