package files

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"

	"github.com/crucial707/fileserve/cmd/cli/client"
	"github.com/crucial707/fileserve/cmd/cli/output"
	"github.com/crucial707/fileserve/cmd/cli/root"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Manage uploaded files",
		Long:  "List, upload, download, and delete files on the File Serve API. Requires a prior login.",
	}

	filesCmd.AddCommand(listCmd(), uploadCmd(), downloadCmd(), deleteCmd())
	root.GetRoot().AddCommand(filesCmd)
}

type fileInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// ==========================
// List Files
// ==========================
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []fileInfo
			if err := client.Do("GET", "/files", nil, "", &files); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(files))
			for _, f := range files {
				rows = append(rows, []interface{}{f.Name, f.Size, f.Modified})
			}
			output.RenderTable([]string{"Name", "Size", "Modified"}, rows)
			return nil
		},
	}
}

// ==========================
// Upload File
// ==========================
func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			part, err := mw.CreateFormFile("file", filepath.Base(args[0]))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f); err != nil {
				return err
			}
			if err := mw.Close(); err != nil {
				return err
			}

			var info fileInfo
			if err := client.Do("POST", "/admin/upload", &buf, mw.FormDataContentType(), &info); err != nil {
				return err
			}
			fmt.Printf("Uploaded %s (%d bytes)\n", info.Name, info.Size)
			return nil
		},
	}
}

// ==========================
// Download File
// ==========================
func downloadCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <name>",
		Short: "Download a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			dest := outPath
			if dest == "" {
				dest = name
			}

			f, err := os.Create(dest)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := client.Get("/files/"+url.PathEscape(name), f); err != nil {
				os.Remove(dest)
				return err
			}
			fmt.Printf("Saved %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Destination path (defaults to the file name)")
	return cmd
}

// ==========================
// Delete File
// ==========================
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/files/"+url.PathEscape(args[0]), nil, "", nil); err != nil {
				return err
			}
			fmt.Println("File deleted.")
			return nil
		},
	}
}
