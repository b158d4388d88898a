/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/araki-m/hondana/internal/googlebooks"
	"github.com/araki-m/hondana/internal/scan"
	"github.com/araki-m/hondana/internal/store"
	"github.com/spf13/cobra"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup [isbn]",
	Short: "Look up a book in the catalog without saving it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !scan.IsValidISBN(args[0]) {
			log.Fatalf("❌ Not a valid ISBN-13: %s", args[0])
		}
		isbn := scan.NormalizeISBN(args[0])

		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		client := googlebooks.NewClient(*config)
		data, err := client.FetchByISBN(context.Background(), isbn)
		if err != nil {
			log.Fatalf("❌ Failed to fetch book info: %v", err)
		}
		if data == nil || data.Title == "" {
			fmt.Printf("No catalog entry found for ISBN %s.\n", isbn)
			return
		}

		fmt.Printf("📖 %s\n", data.Title)
		fmt.Println(strings.Repeat("─", len(data.Title)+3))
		fmt.Printf("Authors:    %s\n", data.Authors)
		fmt.Printf("Publisher:  %s\n", data.Publisher)
		fmt.Printf("Published:  %s\n", data.PublishedDate)
		if data.PageCount > 0 {
			fmt.Printf("Pages:      %d\n", data.PageCount)
		}
		if data.Thumbnail != "" {
			fmt.Printf("Cover:      %s\n", data.Thumbnail)
		}
		if data.Description != "" {
			fmt.Println("\n📚 Description:")
			fmt.Println(data.Description)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
