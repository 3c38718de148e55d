package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/settings"
)

// NewSettingsCmd creates the settings command.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change provider settings",
		Long: `Provider settings decide which backend rewrites the prompt.

  gemini   Managed Gemini call. The API key is optional here and falls back
           to GEMINI_API_KEY (or API_KEY) from the environment or .env file.
  openai   Any OpenAI-compatible chat-completions endpoint. Needs apiKey,
           baseUrl and model.

Switching provider resets the provider fields but keeps the temperature.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			showSettings(cmd, a.settings.Current())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "provider <gemini|openai>",
		Short:     "Switch provider",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(settings.ProviderGemini), string(settings.ProviderOpenAI)},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := settings.ParseProvider(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.settings.SetVariant(cmd.Context(), p); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Provider set to %s", p)
			if missing := a.settings.Current().MissingFields(); len(missing) > 0 {
				printWarning(cmd.OutOrStdout(), "Still needed: %v (sharpen settings set <field> <value>)", missing)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set apiKey, baseUrl or model for the current provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			applied, err := a.settings.UpdateField(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			field, _ := settings.CanonicalField(args[0])
			if !applied {
				printWarning(cmd.OutOrStdout(), "%s does not apply to the %s provider, nothing changed", field, a.settings.Current().Provider)
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "Set %s", field)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "temperature <0..1>",
		Short: "Set the sampling temperature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.Invalid("temperature must be a number, got %q", args[0])
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.settings.SetTemperature(cmd.Context(), v); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Temperature set to %g", v)
			return nil
		},
	})

	return cmd
}

func showSettings(cmd *cobra.Command, s settings.Settings) {
	out := cmd.OutOrStdout()
	r := s.Redacted()

	fmt.Fprintln(out, bold("Settings"))
	printInfo(out, "Provider", string(r.Provider))
	printInfo(out, "Temperature", strconv.FormatFloat(r.Temperature, 'g', -1, 64))

	for _, f := range r.Fields() {
		value := r.Get(f)
		if value == "" {
			value = dim("(not set)")
			if f == settings.FieldAPIKey && r.Provider == settings.ProviderGemini {
				value = dim("(from environment)")
			}
		}
		printInfo(out, f, value)
	}

	if missing := s.MissingFields(); len(missing) > 0 {
		fmt.Fprintln(out)
		printWarning(out, "Missing required fields: %v", missing)
	}
}
