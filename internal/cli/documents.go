package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"quiz-builder/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewDocumentsCmd manages stored documents without starting the server.
func NewDocumentsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List, create and delete stored documents",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored documents, most recently edited first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStorage(cmd, *configPath, func(st *storage) error {
					list, err := st.docs.List(cmd.Context())
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tLAST EDITED")
					for _, s := range list {
						fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.LastEdited.Format(time.RFC3339))
					}
					return w.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "create [name]",
			Short: "Create an empty document",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := ""
				if len(args) == 1 {
					name = args[0]
				}
				return withStorage(cmd, *configPath, func(st *storage) error {
					doc := domain.NewQuiz("", name, nil, time.Now())
					if err := st.docs.Save(cmd.Context(), doc); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), doc.ID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a stored document",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStorage(cmd, *configPath, func(st *storage) error {
					return st.docs.Delete(cmd.Context(), args[0])
				})
			},
		},
	)
	return cmd
}

func withStorage(cmd *cobra.Command, configPath string, fn func(st *storage) error) (err error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := openStorage(cmd.Context(), cfg, log.WithOptions(zap.IncreaseLevel(zap.WarnLevel)))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(st)
}
