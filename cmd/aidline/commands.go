package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidline/aidline/internal/config"
	"github.com/aidline/aidline/internal/dispatch"
	"github.com/aidline/aidline/internal/geoloc"
	"github.com/aidline/aidline/internal/logging"
	"github.com/aidline/aidline/internal/request"
	"github.com/aidline/aidline/internal/tui"
	"github.com/aidline/aidline/internal/ui"
)

// Command flags
var (
	endpointFlag string

	submitName        string
	submitPhone       string
	submitType        string
	submitLocation    string
	submitDescription string

	locateTimeout int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Dispatch service base URL (overrides config; empty means simulated)")

	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(profileCmd)
}

// loadRegistry loads the user configuration, falling back to defaults when
// the config file is unreadable
func loadRegistry() *config.Registry {
	registry, err := config.LoadRegistry()
	if err != nil {
		fmt.Printf("Warning: could not load configuration: %v\n", err)
		return config.NewRegistry()
	}
	return registry
}

// newDispatchClient builds the dispatch client from the endpoint flag or the
// configured endpoint. An empty endpoint selects the simulated transport.
func newDispatchClient(registry *config.Registry) *dispatch.Client {
	endpoint := endpointFlag
	if endpoint == "" {
		endpoint = registry.DispatchEndpoint()
	}
	return dispatch.NewClient(endpoint)
}

// requestCmd launches the interactive TUI form
var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Launch the interactive request form",
	Long: `Launch the interactive terminal form for composing an ambulance request.

The form collects your name, callback phone number, emergency type,
location, and an optional description. Press ctrl+g inside the form to
fill the location field from a network geolocation lookup.`,
	Example: `  # Launch the form (also the default with no command)
  aidline request
  aidline

  # Submit against a local stub dispatch server
  aidline request --endpoint http://localhost:8080`,
	RunE: runRequest,
}

func runRequest(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	registry := loadRegistry()
	client := newDispatchClient(registry)

	if err := tui.Run(client, registry); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}

// submitCmd submits a request non-interactively from flags
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a request non-interactively",
	Long: `Submit an ambulance request directly from flags, without the form.

The same validation rules apply as in the interactive form: name of at
least 2 characters, phone of at least 10, a known emergency type, and a
location of at least 5 characters. The description is optional.`,
	Example: `  aidline submit \
    --name "Jamie Soto" \
    --phone 07700900123 \
    --type cardiac \
    --location "Carrer de Mallorca 401, Barcelona"

  # With a description, against a real endpoint
  aidline submit --endpoint http://localhost:8080 \
    --name "Jamie Soto" --phone 07700900123 --type accident \
    --location "A-2 km 603" --description "Two cars, one person trapped"`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitName, "name", "", "Caller's full name")
	submitCmd.Flags().StringVar(&submitPhone, "phone", "", "Callback phone number")
	submitCmd.Flags().StringVar(&submitType, "type", "", "Emergency type ("+strings.Join(emergencyTypeNames(), ", ")+")")
	submitCmd.Flags().StringVar(&submitLocation, "location", "", "Street address or coordinates")
	submitCmd.Flags().StringVar(&submitDescription, "description", "", "What happened (optional)")
}

func emergencyTypeNames() []string {
	names := make([]string, len(request.EmergencyTypes))
	for i, t := range request.EmergencyTypes {
		names[i] = string(t)
	}
	return names
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	registry := loadRegistry()
	client := newDispatchClient(registry)
	printer := ui.NewPrinter(nil)

	draft := &request.Draft{
		Name:          submitName,
		Phone:         submitPhone,
		EmergencyType: submitType,
		Location:      submitLocation,
		Description:   submitDescription,
	}

	// Prefill blanks from the saved profile, same as the form does
	if registry.Profile != nil {
		if draft.Name == "" {
			draft.Name = registry.Profile.Name
		}
		if draft.Phone == "" {
			draft.Phone = registry.Profile.Phone
		}
	}

	if result := request.Validate(draft); !result.Valid {
		fmt.Println("Invalid request:")
		for _, fieldErr := range result.Errors {
			fmt.Printf("  ✗ %s: %s\n", fieldErr.Field, fieldErr.Message)
		}
		return fmt.Errorf("validation failed (%d field(s))", len(result.Errors))
	}

	params := map[string]string{
		"Type":     draft.EmergencyType,
		"Location": draft.Location,
		"Caller":   draft.Name,
	}
	printer.PrintHeader("Ambulance Request", "aidline submit", params)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	receipt, err := client.Submit(ctx, draft)
	if err != nil {
		printer.PrintError("Request not delivered", err, []string{
			fmt.Sprintf("Call %s now", registry.FallbackPhone()),
			"Check the dispatch endpoint with 'aidline profile'",
			"Retry with 'aidline submit' once connectivity is back",
		})
		return fmt.Errorf("submission failed: %w", err)
	}

	details := map[string]string{
		"Request ID": receipt.ID,
		"Accepted":   receipt.AcceptedAt.Format(time.RFC3339),
	}
	if receipt.ETAMinutes > 0 {
		details["ETA"] = fmt.Sprintf("%d minutes", receipt.ETAMinutes)
	}
	if receipt.Simulated {
		details["Transport"] = "simulated (no real ambulance requested)"
	}
	printer.PrintSuccess("Request accepted", details)

	if !receipt.Simulated {
		fmt.Printf("Track status with: aidline track %s\n", receipt.ID)
	}
	return nil
}

// locateCmd performs a one-shot coordinate lookup
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Look up your current coordinates",
	Long: `Look up approximate coordinates from a network geolocation service
and print them as "<lat>, <lon>", the same format the form's location
helper uses.`,
	Example: `  aidline locate
  aidline locate --timeout 3`,
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().IntVar(&locateTimeout, "timeout", config.DefaultLocateTimeout, "Lookup timeout in seconds")
}

func runLocate(cmd *cobra.Command, args []string) error {
	registry := loadRegistry()

	var baseURL string
	if registry.Preferences != nil {
		baseURL = registry.Preferences.GeolocationURL
	}
	locator := geoloc.New(baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(locateTimeout)*time.Second)
	defer cancel()

	coords, err := locator.Current(ctx)
	if err != nil {
		return fmt.Errorf("location lookup failed: %w", err)
	}

	fmt.Println(coords.String())
	return nil
}

// trackCmd follows dispatch status updates for a submitted request
var trackCmd = &cobra.Command{
	Use:   "track <request-id>",
	Short: "Follow status updates for a request",
	Long: `Follow dispatch status updates for a previously submitted request.

Status events (received, assigned, en_route, arrived, closed) are pushed
by the dispatch service over a websocket and printed as they arrive.
Tracking requires a configured dispatch endpoint; the simulated transport
has no status feed.`,
	Example: `  aidline track 4f6b2c9a-1d0e-4c3b-9a57-8f2d4f6b2c9a
  aidline track 4f6b2c9a --endpoint http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func runTrack(cmd *cobra.Command, args []string) error {
	requestID := args[0]

	registry := loadRegistry()
	client := newDispatchClient(registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream, err := client.Follow(ctx, requestID)
	if err != nil {
		return fmt.Errorf("cannot follow request %s: %w", requestID, err)
	}
	defer stream.Close()

	fmt.Printf("Tracking request %s (ctrl+c to stop)\n\n", requestID)

	for event := range stream.Events {
		fmt.Printf("%s  %-10s %s\n",
			event.Timestamp.Format("15:04:05"),
			event.Status,
			event.Detail,
		)
		if event.Status == dispatch.StatusClosed {
			break
		}
	}

	return nil
}

// profileCmd shows or updates the saved caller profile
var profileCmd = &cobra.Command{
	Use:   "profile [name] [phone]",
	Short: "Show or set the saved caller profile",
	Long: `Show or update the caller profile used to prefill requests.

With no arguments, prints the current profile and dispatch settings.
With a name and phone, saves them to the configuration file.`,
	Example: `  # Show current settings
  aidline profile

  # Save the caller profile
  aidline profile "Jamie Soto" 07700900123`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	registry := loadRegistry()

	if len(args) == 0 {
		name, phone := "(not set)", "(not set)"
		if registry.Profile != nil {
			if registry.Profile.Name != "" {
				name = registry.Profile.Name
			}
			if registry.Profile.Phone != "" {
				phone = registry.Profile.Phone
			}
		}

		endpoint := registry.DispatchEndpoint()
		if endpoint == "" {
			endpoint = "(simulated)"
		}

		fmt.Printf("Name:      %s\n", name)
		fmt.Printf("Phone:     %s\n", phone)
		fmt.Printf("Dispatch:  %s\n", endpoint)
		fmt.Printf("Fallback:  %s\n", registry.FallbackPhone())

		configPath, err := config.GetConfigPath()
		if err == nil {
			fmt.Printf("\nConfig file: %s\n", configPath)
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("expected both a name and a phone number")
	}

	registry.SetProfile(args[0], args[1])
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("✓ Profile saved: %s (%s)\n", args[0], args[1])
	return nil
}
