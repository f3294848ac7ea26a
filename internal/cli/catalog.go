package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/gptrack/internal/db"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the sqlite catalog of decoded tracks",
	}
	cmd.AddCommand(
		newCatalogAddCmd(a),
		newCatalogListCmd(a),
		newCatalogRemoveCmd(a),
		newCatalogMigrateCmd(a),
	)
	return cmd
}

// openCatalog opens and migrates the configured catalog.
func (a *app) openCatalog() (*db.DB, error) {
	path := a.cfg.GetCatalogPath()
	a.logger.Debug("opening catalog", zap.String("path", path))
	return db.NewDB(path)
}

func newCatalogAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add FILE...",
		Short: "Decode track files and store them in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()
			store := db.NewTrackStore(catalog)

			for _, path := range args {
				def, raw, err := a.decodeFile(path)
				if err != nil {
					return err
				}
				rec, err := store.Insert(def, raw, path)
				switch {
				case errors.Is(err, db.ErrTrackExists):
					fmt.Fprintf(a.out, "%s: already catalogued as %s\n", path, rec.TrackID)
				case err != nil:
					return fmt.Errorf("%s: %w", path, err)
				default:
					fmt.Fprintf(a.out, "%s: added %s (%s)\n", path, rec.TrackID, rec.Name)
				}
			}
			return nil
		},
	}
}

func newCatalogListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogued tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()

			records, err := db.NewTrackStore(catalog).List()
			if err != nil {
				return err
			}
			t := newTable(a, "Track catalog")
			t.AppendHeader(table.Row{"ID", "Name", "Sections", "Pit", "Length", "Checksum", "Imported"})
			t.SetColumnConfigs([]table.ColumnConfig{{Number: 5, Align: text.AlignRight}})
			for _, r := range records {
				t.AppendRow(table.Row{
					r.TrackID,
					r.Name,
					r.SectionCount,
					r.PitLaneSectionCount,
					a.length(r.LengthMeters),
					lo.Ternary(r.ChecksumVerified, "verified", fmt.Sprintf("0x%08X", r.ChecksumStored)),
					r.ImportedTime().Format("2006-01-02 15:04"),
				})
			}
			totalLength := lo.SumBy(records, func(r *db.TrackRecord) float64 { return r.LengthMeters })
			t.AppendFooter(table.Row{len(records), "", "", "", a.length(totalLength)})
			t.Render()
			return nil
		},
	}
}

func newCatalogRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TRACK_ID...",
		Short: "Delete tracks from the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()
			store := db.NewTrackStore(catalog)
			for _, id := range args {
				if err := store.Delete(id); err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				fmt.Fprintf(a.out, "removed %s\n", id)
			}
			return nil
		},
	}
}

func newCatalogMigrateCmd(a *app) *cobra.Command {
	var (
		down   bool
		status bool
		to     uint
		force  int
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect catalog schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := db.Open(a.cfg.GetCatalogPath())
			if err != nil {
				return err
			}
			defer catalog.Close()

			flags := cmd.Flags()
			switch {
			case status:
			case flags.Changed("force"):
				err = catalog.MigrateForce(force)
			case flags.Changed("to"):
				err = catalog.MigrateTo(to)
			case down:
				err = catalog.MigrateDown()
			default:
				err = catalog.MigrateUp()
			}
			if err != nil {
				return err
			}

			st, err := catalog.GetMigrationStatus()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "schema version %d of %d", st.CurrentVersion, st.LatestVersion)
			if st.Dirty {
				fmt.Fprint(a.out, " (dirty)")
			} else if st.Pending() {
				fmt.Fprint(a.out, " (pending)")
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "only print the schema version")
	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	cmd.Flags().UintVar(&to, "to", 0, "migrate up or down to this version")
	cmd.Flags().IntVar(&force, "force", 0, "record this version without running migrations")
	return cmd
}
