package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"visual-mapper/internal/bootstrap"
	"visual-mapper/internal/mapping/pipeline"
)

type mapOptions struct {
	input      string
	sessionID  string
	template   string
	entities   []string
	keyphrases []string
	stats      bool
}

func newMapCmd(a *app) *cobra.Command {
	opts := &mapOptions{}
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map entities and keyphrases to a layout and print the response",
		Example: `  mapperctl map --entities врач,запись --keyphrases клиника
  mapperctl map --input request.json
  echo '{"entities":["корзина"]}' | mapperctl map --input -
  mapperctl map -e врач --stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(cmd.InOrStdin())
			if err != nil {
				return err
			}
			mapper, err := bootstrap.NewMapper(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			resp := mapper.Map(req)
			if !opts.stats {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				Response pipeline.Response    `json:"response"`
				Stats    pipeline.LayoutStats `json:"stats"`
			}{resp, pipeline.StatsFor(resp.Layout)})
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "JSON request file, - for stdin")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "session id echoed in the response")
	cmd.Flags().StringVar(&opts.template, "template", "", "force a layout template")
	cmd.Flags().StringSliceVarP(&opts.entities, "entities", "e", nil, "comma separated entities")
	cmd.Flags().StringSliceVarP(&opts.keyphrases, "keyphrases", "k", nil, "comma separated keyphrases")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "wrap the response with section and props statistics")
	return cmd
}

// request builds the mapping request from --input or from the term flags.
// Flags given alongside --input override the file's values.
func (o *mapOptions) request(stdin io.Reader) (pipeline.Request, error) {
	var req pipeline.Request
	if o.input != "" {
		var (
			data []byte
			err  error
		)
		if o.input == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(o.input)
		}
		if err != nil {
			return req, fmt.Errorf("read input: %w", err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse input: %w", err)
		}
	}
	if len(o.entities) > 0 {
		req.Entities = o.entities
	}
	if len(o.keyphrases) > 0 {
		req.Keyphrases = o.keyphrases
	}
	if o.sessionID != "" {
		req.SessionID = o.sessionID
	}
	if o.template != "" {
		req.Template = o.template
	}
	return req, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
