package app

import "github.com/urfave/cli/v2"

var (
	folderFlag = &cli.StringFlag{
		Name:    "folder",
		Aliases: []string{"f"},
		Usage:   "Target folder name",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output in JSON format",
	}

	startFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "Start of the reporting period (e.g. '7 days ago', '2024-01-01')",
	}

	endFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "End of the reporting period. Defaults to the current day",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a reading session",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each reading session",
	}

	themeFlag = &cli.StringFlag{
		Name:    "theme",
		Aliases: []string{"t"},
		Usage:   "Reading theme: day, night, sepia, console, or grey",
	}
)
