package main

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/urfave/cli/v2"
)

var dataVersionFlag = &cli.StringFlag{
	Name:  "data-version",
	Usage: "Schema version of the database, decimal or hex (e.g. 25 or 0x19)",
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extract a database file into a JSON document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, TakesFile: true, Usage: "Input database file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "Output JSON file"},
			&cli.BoolFlag{Name: "legacy", Usage: "Write the flat data_ver/data layout used by the legacy musicdata_tool"},
		},
		Action: func(c *cli.Context) error {
			a, _, err := newApp(c)
			if err != nil {
				return err
			}
			return a.Extract(c.Context, c.String("input"), c.String("output"), c.Bool("legacy"))
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a database file from a JSON document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, TakesFile: true, Usage: "Input JSON file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "Output database file"},
			dataVersionFlag,
		},
		Action: func(c *cli.Context) error {
			a, _, err := newApp(c)
			if err != nil {
				return err
			}
			return a.Create(c.Context, c.String("input"), c.String("output"))
		},
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Re-encode a database file under another schema version",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, TakesFile: true, Usage: "Input database file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "Output database file"},
			&cli.StringFlag{Name: "data-version", Required: true, Usage: "Target schema version, decimal or hex"},
			&cli.StringFlag{Name: "source-version", Usage: "Expected schema version of the input, defaults to its header"},
		},
		Action: func(c *cli.Context) error {
			a, cfg, err := newApp(c)
			if err != nil {
				return err
			}
			var source uint32
			if c.IsSet("source-version") {
				if source, err = parseVersion(c.String("source-version")); err != nil {
					return err
				}
			}
			return a.Convert(c.Context, c.String("input"), c.String("output"), source, cfg.DataVersion)
		},
	}
}

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:  "merge",
		Usage: "Add songs missing from the base database, base records win on conflict",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, TakesFile: true, Usage: "Older database providing extra songs"},
			&cli.StringFlag{Name: "base", Aliases: []string{"b"}, Required: true, TakesFile: true, Usage: "Newer database whose records take precedence"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output database file, defaults to --base"},
		},
		Action: func(c *cli.Context) error {
			a, _, err := newApp(c)
			if err != nil {
				return err
			}
			out := c.String("output")
			if out == "" {
				out = c.String("base")
			}
			return a.Merge(c.Context, c.String("input"), c.String("base"), out)
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show header information of a database file",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.ShowSubcommandHelp(c)
			}
			a, _, err := newApp(c)
			if err != nil {
				return err
			}
			s, err := a.Inspect(c.Context, c.Args().First())
			if err != nil {
				return err
			}

			fmt.Printf("ファイル: %s\n", s.Path)
			fmt.Printf("バージョン: 0x%x\n", s.SchemaVersion)
			fmt.Printf("レコードサイズ: %d バイト\n", s.RecordSize)
			fmt.Printf("曲数: %d\n", s.PopulatedCount)
			fmt.Printf("スロット数: %d (使用中 %d)\n", s.SlotCount, s.OccupiedSlots)
			fmt.Printf("予約領域: 0x%04x\n", s.Reserved)
			if len(s.DuplicateIDs) > 0 {
				fmt.Printf("重複した song_id: %v\n", s.DuplicateIDs)
			}
			fmt.Printf("blake3: %s\n", s.Digest)
			return nil
		},
	}
}

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Print one song of a database file as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, TakesFile: true, Usage: "Input database file"},
			&cli.Uint64Flag{Name: "song-id", Required: true, Usage: "Song ID to look up"},
		},
		Action: func(c *cli.Context) error {
			a, _, err := newApp(c)
			if err != nil {
				return err
			}
			id, err := parseSongID(c.Uint64("song-id"))
			if err != nil {
				return err
			}
			rec, err := a.Lookup(c.Context, c.String("input"), id)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(rec, "", "    ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// parseSongID は song_id が uint32 に収まるか確認します
func parseSongID(v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("song_id が範囲外です: %d", v)
	}
	return uint32(v), nil
}
