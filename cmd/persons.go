package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-register/internal/config"
)

var personsCmd = &cobra.Command{
	Use:   "persons",
	Short: "List registered persons",
	Long:  `Displays every person record, newest first.`,
	RunE:  runPersons,
}

func init() {
	rootCmd.AddCommand(personsCmd)

	personsCmd.Flags().Bool("json", false, "Output as JSON")
}

func runPersons(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	repo, err := openPersonStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	persons, err := repo.ListPersons(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persons: %w", err)
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(persons)
	}

	if len(persons) == 0 {
		fmt.Println("No persons found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLASTNAME\tFIRSTNAME\tOBJECT KEY\tIDENTITY\tUPDATED")
	fmt.Fprintln(w, "--\t--------\t---------\t----------\t--------\t-------")

	for i := range persons {
		p := &persons[i]
		identity := "-"
		if p.HasIdentity() {
			identity = *p.Identity
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Lastname, p.Firstname, p.ObjectKey, identity, p.UpdatedAt.Format("2006-01-02 15:04"))
	}

	w.Flush()

	fmt.Printf("\nTotal: %d persons\n", len(persons))

	return nil
}
