// Package app defines the lectern command-line interface.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"lectern/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the lectern app instance.
func Get() *cli.App {
	lecternApp := &cli.App{
		Name: "lectern",
		Usage: `
		Lectern is a PDF reading tracker for the command-line. It keeps a
		library of your documents and tracks reading time, streaks, and
		progress towards a daily reading goal.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "read",
				Usage:     "Open a document in the terminal reader",
				UsageText: "read <id|name>",
				Action:    readAction,
			},
			{
				Name:      "add",
				Usage:     "Add a PDF file to the library",
				UsageText: "add <path> [--folder <name>]",
				Flags:     []cli.Flag{folderFlag},
				Action:    addAction,
			},
			{
				Name:      "import",
				Usage:     "Import every PDF file in a directory into a new folder",
				UsageText: "import <dir> [--folder <name>]",
				Flags:     []cli.Flag{folderFlag},
				Action:    importAction,
			},
			{
				Name:   "list",
				Usage:  "List the documents in the library",
				Flags:  []cli.Flag{folderFlag, jsonFlag},
				Action: listAction,
			},
			{
				Name:  "folder",
				Usage: "Manage library folders",
				Subcommands: []*cli.Command{
					{
						Name:      "create",
						Usage:     "Create a new folder",
						UsageText: "folder create <name>",
						Action:    createFolderAction,
					},
					{
						Name:      "rename",
						Usage:     "Rename a folder",
						UsageText: "folder rename <id|name> <new name>",
						Action:    renameFolderAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a folder, keeping its documents",
						UsageText: "folder delete <id|name>",
						Action:    deleteFolderAction,
					},
				},
			},
			{
				Name: "stats",
				Usage: `
				Track your reading progress with detailed statistics reporting.
				Defaults to a reporting period of 7 days`,
				Flags:  []cli.Flag{startFlag, endFlag, jsonFlag},
				Action: statsAction,
			},
			{
				Name:      "goal",
				Usage:     "Set the daily reading goal in minutes",
				UsageText: "goal <minutes>",
				Action:    goalAction,
			},
			{
				Name:      "theme",
				Usage:     "Set the reading theme, or cycle to the next one",
				UsageText: "theme [day|night|sepia|console|grey]",
				Action:    themeAction,
			},
			{
				Name:      "bookmarks",
				Usage:     "List a document's bookmarks",
				UsageText: "bookmarks <id|name>",
				Action:    bookmarksAction,
			},
			{
				Name:      "notes",
				Usage:     "List a document's notes",
				UsageText: "notes <id|name>",
				Action:    notesAction,
			},
			{
				Name:      "highlights",
				Usage:     "List a document's highlights",
				UsageText: "highlights <id|name>",
				Action:    highlightsAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			disableNotificationFlag,
			sessionCmdFlag,
			themeFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
	}

	return lecternApp
}
