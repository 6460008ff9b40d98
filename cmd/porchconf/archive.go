package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mscrnt/porchconf/pkg/db"
)

func archiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage porch conf snapshots",
		Long:  "Store snapshots of the porch conf file in a SQLite archive and export them later",
	}

	cmd.AddCommand(archiveSnapshotCmd(a))
	cmd.AddCommand(archiveListCmd(a))
	cmd.AddCommand(archiveExportCmd(a))
	cmd.AddCommand(archiveDeleteCmd(a))

	return cmd
}

func archiveSnapshotCmd(a *app) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Archive the current porch conf file",
		Long: `Store every record of the porch conf file as a new snapshot.

Examples:
  porchconf archive snapshot --note "before panel B tuning"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.loadStore(false)
			if err != nil {
				return err
			}

			database, err := a.openArchive()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			snap, err := database.CreateSnapshot(st.Path(), note, st.Records())
			if err != nil {
				return err
			}
			a.logger.Info().Int64("snapshot", snap.ID).Int("records", snap.Count).Msg("snapshot archived")
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %d: %d records from %s\n", snap.ID, snap.Count, snap.Source)
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Free text stored with the snapshot")

	return cmd
}

func archiveListCmd(a *app) *cobra.Command {
	var (
		source string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots",
		Long: `List archived snapshots, newest first.

Examples:
  porchconf archive list --limit 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := a.openArchive()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			snaps, err := database.ListSnapshots(db.SnapshotFilter{
				Source: source,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintln(out, "No snapshots found")
				return nil
			}

			fmt.Fprintf(out, "%-6s %-20s %-8s %-30s %s\n", "ID", "Created", "Records", "Source", "Note")
			fmt.Fprintln(out, strings.Repeat("-", 80))
			for _, s := range snaps {
				fmt.Fprintf(out, "%-6d %-20s %-8d %-30s %s\n",
					s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Count, s.Source, s.Note)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Only snapshots of this porch conf file")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of snapshots")

	return cmd
}

func archiveExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [snapshot-id]",
		Short: "Export an archived snapshot",
		Long: `Export an archived snapshot to CSV or JSON.

Examples:
  porchconf archive export 3 --format json --out snapshot3.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSnapshotID(args[0])
			if err != nil {
				return err
			}
			f, err := db.ParseExportFormat(format)
			if err != nil {
				return err
			}

			database, err := a.openArchive()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			w, closeOut, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			err = database.Export(w, id, f)
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or json")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (default: stdout)")

	return cmd
}

func archiveDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [snapshot-id]",
		Short: "Delete an archived snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSnapshotID(args[0])
			if err != nil {
				return err
			}

			database, err := a.openArchive()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := database.DeleteSnapshot(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %d\n", id)
			return nil
		},
	}
}

func parseSnapshotID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot ID: %s", s)
	}
	return id, nil
}
