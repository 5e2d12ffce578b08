package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vios-project/vios/internal/biostool"
	"github.com/vios-project/vios/internal/template"
)

var uploadAssumeYes bool

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload the current BIOS settings as the golden template",
	Long: `Upload captures the current BIOS settings, stamps them with the system's
tracking information, and publishes them as the new golden template for the
project. Future compares and applies on this project will use it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runUpload(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolVarP(&uploadAssumeYes, "yes", "y", false,
		"Skip the confirmation prompt")
}

func runUpload(ctx context.Context) error {
	closeLog, err := setupDebugLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if !uploadAssumeYes && !confirmUpload() {
		fmt.Println("Exiting vios configuration...")
		return nil
	}

	info, tool, workspace, err := gatherSystem(ctx)
	if err != nil {
		return err
	}
	if info.ProjectNumber == "" || info.Customer == "" {
		return fmt.Errorf("not enough tracking information to generate a golden template, missing project or customer")
	}

	if sm, ok := tool.(*biostool.Supermicro); ok {
		if err := sm.CheckActivation(ctx); err != nil {
			return err
		}
	}

	name := biostool.TemplateName(info.ProjectNumber, info.Customer, info.Date, tool.FileExtension())
	path, err := workspace.TemplateFile(name)
	if err != nil {
		return err
	}
	if err := tool.Capture(ctx, path); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading captured settings: %w", err)
	}
	stamped, err := template.Stamp(content, name, info)
	if err != nil {
		return fmt.Errorf("stamping %s: %w", name, err)
	}
	if err := os.WriteFile(path, stamped, 0o644); err != nil {
		return fmt.Errorf("writing stamped template: %w", err)
	}

	location, err := newTemplateClient().Upload(ctx, info.ProjectNumber, info.Customer, name, stamped)
	if err != nil {
		return err
	}
	fmt.Printf("Success! %s was uploaded as %s.\n", name, location)
	return nil
}

func confirmUpload() bool {
	fmt.Print("Would you like to set the current BIOS settings as the golden template for this " +
		"system? This means the current BIOS settings are 100% correct... Continue? (y/n): ")
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(response), "y")
}
