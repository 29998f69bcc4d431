// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"

	"github.com/siemens/ipatlas/config"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "show or change the thread amounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showSettings(newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "show the thread amounts in effect",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return showSettings(newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
			},
		},
		&cobra.Command{
			Use:       "set kind amount",
			Short:     "switch to user-defined thread amounts, changing the amount of threads of the specified kind",
			Args:      cobra.ExactArgs(2),
			ValidArgs: config.ThreadKinds,
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid thread amount %q: %w", args[1], config.ErrSettings)
				}
				return updateSettings(newConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
					func(s *config.Settings) error {
						threads, err := s.Active().With(args[0], amount)
						if err != nil {
							return err
						}
						return s.SetUserDefined(threads)
					})
			},
		},
		&cobra.Command{
			Use:   "default",
			Short: "switch back to the default thread amounts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return updateSettings(newConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
					func(s *config.Settings) error {
						s.UseDefaults()
						return nil
					})
			},
		},
	)
	return cmd
}

// showSettings prints the thread amounts in effect.
func showSettings(con *console) error {
	settings, err := config.Load(*settingsPath)
	if err != nil {
		return err
	}
	con.Printf("%s settings: %s\n", headingStyle.Styled(settings.ActiveName()), settings.Active())
	return nil
}

// updateSettings loads the settings, changes them, and saves them back.
func updateSettings(con *console, change func(*config.Settings) error) error {
	settings, err := config.Load(*settingsPath)
	if err != nil {
		return err
	}
	if err := change(settings); err != nil {
		return err
	}
	if err := settings.Save(*settingsPath); err != nil {
		return fmt.Errorf("cannot save settings: %w", err)
	}
	return showSettings(con)
}
