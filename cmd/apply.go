package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vios-project/vios/internal/biostool"
	"github.com/vios-project/vios/internal/notify"
	"github.com/vios-project/vios/internal/template"
)

var (
	applyURL    string
	applyNotify bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Configure the BIOS from the golden template",
	Long: `Apply downloads the latest golden template for the project (or the one at
--url) and configures the BIOS with it through the vendor tool. A reboot is
required afterwards for the settings to take effect.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApply(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applyURL, "url", "u", "",
		"Apply the golden template at this URL instead of the latest")
	applyCmd.Flags().BoolVar(&applyNotify, "notify", false,
		"Send a failure report over SMTP when the apply fails (see notify.* config keys)")
}

func runApply(ctx context.Context) error {
	closeLog, err := setupDebugLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	info, tool, workspace, err := gatherSystem(ctx)
	if err != nil {
		return err
	}

	if sm, ok := tool.(*biostool.Supermicro); ok {
		if err := sm.CheckActivation(ctx); err != nil {
			return err
		}
	}

	client := newTemplateClient()
	var tpl *template.Template
	if applyURL != "" {
		tpl, err = client.FetchURL(ctx, applyURL, info.Board)
	} else {
		tpl, err = client.FetchLatest(ctx, info.ProjectNumber, info.Customer)
	}
	if err != nil {
		if errors.Is(err, template.ErrNoTemplate) {
			fmt.Println("No golden template could be found for the system.")
			fmt.Println("To upload the current BIOS settings as the golden template run <vios upload>.")
			return nil
		}
		return reportApplyFailure(info.SystemID(), err)
	}

	path, err := workspace.TemplateFile(tpl.Name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, tpl.Content, 0o644); err != nil {
		return fmt.Errorf("writing golden template to %s: %w", path, err)
	}

	log.Info().Msgf("Applying golden template %s", tpl.Name)
	if err := tool.Apply(ctx, path); err != nil {
		return reportApplyFailure(info.SystemID(), err)
	}

	fmt.Printf("Golden template %s applied. Reboot the system for the settings to take effect.\n", tpl.Name)
	return nil
}

// reportApplyFailure optionally mails the failure before returning it, so
// unattended runs surface somewhere a human looks.
func reportApplyFailure(systemID string, applyErr error) error {
	if !applyNotify {
		return applyErr
	}

	mailer := notify.NewMailer(
		viper.GetString("notify.smtp"),
		viper.GetString("notify.from"),
		viper.GetString("notify.username"),
		viper.GetString("notify.password"),
	)
	msg := notify.Message{
		To:      viper.GetStringSlice("notify.to"),
		CC:      viper.GetStringSlice("notify.cc"),
		Subject: fmt.Sprintf("vios: BIOS apply failed on %s", systemID),
		Body: strings.Join([]string{
			"Applying the golden template failed.",
			"",
			"System: " + systemID,
			"Error:  " + applyErr.Error(),
		}, "\n"),
	}

	if err := mailer.Send(msg); err != nil {
		log.Error().Err(err).Msg("Cannot send failure report")
	}
	return applyErr
}
