package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all versions in the changelog",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		changelog, err := parseFile(file)
		if err != nil {
			return err
		}

		for _, release := range changelog.Releases {
			if release.Date != "" {
				fmt.Printf("%s (%s)\n", release.Version, release.Date)
			} else {
				fmt.Println(release.Version)
			}
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one version's changelog section",
	Long:  `Print the changelog section for a single version, suitable for pasting into release notes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		version, _ := cmd.Flags().GetString("version")

		changelog, err := parseFile(file)
		if err != nil {
			return err
		}

		release := changelog.Release(version)
		if release == nil {
			return fmt.Errorf("version %s not found in %s", version, file)
		}

		if release.Date != "" {
			fmt.Printf("## [%s] - %s\n\n", release.Version, release.Date)
		} else {
			fmt.Printf("## [%s]\n\n", release.Version)
		}
		fmt.Println(release.Body)

		if url, ok := changelog.Links[release.Version]; ok {
			fmt.Printf("\n[%s]: %s\n", release.Version, url)
		}
		return nil
	},
}

func parseFile(file string) (*Changelog, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	changelog, err := ParseChangelog(content)
	if err != nil {
		return nil, fmt.Errorf("parsing changelog: %w", err)
	}
	return changelog, nil
}

func init() {
	listCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")

	showCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	showCmd.Flags().StringP("version", "v", "", "Version to show (with or without 'v' prefix)")
	_ = showCmd.MarkFlagRequired("version")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
