// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/siemens/ipatlas/config"
	"github.com/siemens/ipatlas/ping"

	"github.com/thediveo/lxkns/log"
)

const mainMenu = `
1) Scan
2) Stitch tiles into map.png
3) Reset tiles
4) Change settings
5) Exit
`

const settingsMenu = `
1) Use default settings
2) Change thread amounts
3) Exit
`

// runMenu interactively asks for what to do next, until either told to exit
// or the input is exhausted. Failed actions are reported but don't end the
// menu.
func runMenu(ctx context.Context, con *console) error {
	for {
		con.Printf("%s%s", headingStyle.Styled("ipatlas"), mainMenu)
		choice, ok := con.Ask(ctx, "> ")
		if !ok {
			return nil
		}
		var err error
		switch choice {
		case "1":
			err = scanCycle(ctx, con, scanOptions{timeout: ping.DefaultTimeout})
		case "2":
			err = stitch(ctx, con, "map.png", DefaultShrink)
		case "3":
			err = confirmReset(ctx, con)
		case "4":
			err = runSettingsMenu(ctx, con)
		case "5", "q", "exit":
			return nil
		default:
			con.Printf("unknown choice %q\n", choice)
			continue
		}
		if err != nil {
			log.Errorf("%s", err.Error())
			con.Printf("%s\n", warningStyle.Styled(err.Error()))
		}
	}
}

// confirmReset only resets the tiles and coverage after confirmation.
func confirmReset(ctx context.Context, con *console) error {
	answer, ok := con.Ask(ctx, "Reset all tiles and scanned ranges? [y/N] ")
	if !ok || !strings.EqualFold(answer, "y") {
		con.Printf("nothing reset\n")
		return nil
	}
	return reset(ctx, con)
}

// runSettingsMenu interactively changes the settings.
func runSettingsMenu(ctx context.Context, con *console) error {
	for {
		if err := showSettings(con); err != nil {
			return err
		}
		con.Printf("%s%s", headingStyle.Styled("Change settings"), settingsMenu)
		choice, ok := con.Ask(ctx, "> ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			if err := updateSettings(con, func(s *config.Settings) error {
				s.UseDefaults()
				return nil
			}); err != nil {
				return err
			}
		case "2":
			if err := updateSettings(con, func(s *config.Settings) error {
				threads, err := askThreadAmounts(ctx, con, s.Active())
				if err != nil {
					return err
				}
				return s.SetUserDefined(threads)
			}); err != nil {
				con.Printf("%s\n", warningStyle.Styled(err.Error()))
			}
		case "3", "q", "exit":
			return nil
		default:
			con.Printf("unknown choice %q\n", choice)
		}
	}
}

// errAborted signals that the input ended while asking for thread amounts.
var errAborted = errors.New("input aborted")

// askThreadAmounts asks for the amount of threads of each kind, keeping the
// current amount when the answer is left empty.
func askThreadAmounts(ctx context.Context, con *console, current config.ThreadAmounts) (config.ThreadAmounts, error) {
	threads := current
	for _, kind := range config.ThreadKinds {
		amount, err := threads.Amount(kind)
		if err != nil {
			return current, err
		}
		answer, ok := con.Ask(ctx, fmt.Sprintf("%s_thread_amount (%d): ", kind, amount))
		if !ok {
			return current, errAborted
		}
		if answer == "" {
			continue
		}
		amount, err = strconv.Atoi(answer)
		if err != nil {
			return current, fmt.Errorf("invalid thread amount %q: %w", answer, config.ErrSettings)
		}
		if threads, err = threads.With(kind, amount); err != nil {
			return current, err
		}
	}
	return threads, nil
}
