package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/yungbote/mathtutor-backend/internal/domain"
)

var shareImage string

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a share link for the shown solution, or save it as an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if shareImage != "" {
			return saveShareImage(ctx, api, shareImage)
		}
		var link struct {
			URL string `json:"url"`
		}
		if err := api.do(ctx, http.MethodPost, "/api/share/link", nil, &link); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link.URL)
		return nil
	},
}

var dispositionName = regexp.MustCompile(`filename="?([^";]+)"?`)

// saveShareImage writes the PNG card to path, or to the server's suggested
// file name when path is ".".
func saveShareImage(ctx context.Context, api *apiClient, path string) error {
	return api.withSession(ctx, func() error {
		resp, err := api.raw(ctx, http.MethodGet, "/api/share/image", nil, "", true)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if path == "." {
			if m := dispositionName.FindStringSubmatch(resp.Header.Get("Content-Disposition")); m != nil {
				path = m[1]
			}
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Println("saved", path)
		return nil
	})
}

var openCmd = &cobra.Command{
	Use:   "open <share-url>",
	Short: "Show the solution carried by a share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		var payload struct {
			Problem  domain.Problem  `json:"problem"`
			Solution domain.Solution `json:"solution"`
			Language string          `json:"language"`
		}
		if err := api.send(cmd.Context(), http.MethodPost, "/api/share/decode", mustJSON(map[string]string{"url": args[0]}), "application/json", &payload, false); err != nil {
			return err
		}
		return renderMarkdown(cmd.OutOrStdout(), solutionMarkdown(&payload.Problem, payload.Solution))
	},
}

func init() {
	shareCmd.Flags().StringVar(&shareImage, "image", "", `save the share card PNG to this path ("." for the suggested name)`)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(openCmd)
}
