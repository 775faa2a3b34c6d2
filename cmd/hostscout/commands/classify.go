package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/hostscout/hostscout/cmd/hostscout/internal/format"
	"github.com/hostscout/hostscout/pkg/inference"
	"github.com/hostscout/hostscout/pkg/scanner"
)

// NewClassifyCommand defines the 'classify' command: run the inference
// engine over operator-supplied facts without touching the network. Useful
// for checking how a known host would be classified, or for piping facts
// from other tooling.
func NewClassifyCommand() *cobra.Command {
	var (
		mac          string
		portSpec     string
		serviceSpecs []string
		osFP         string
		vendorHint   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a device from supplied facts",
		Long: `Runs the device-type inference engine over facts given on the command
line instead of facts gathered by a scan. Service names default to the
well-known assignment for each port and can be overridden with repeated
--service port=name flags.`,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := format.ParseMode(outputFormat)
			if err != nil {
				return err
			}
			out := format.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode, false, true)

			manager, err := managerFromCommand(cmd)
			if err != nil {
				return err
			}

			table, err := loadTable(manager.Get().OUI)
			if err != nil {
				return err
			}

			facts, err := buildFacts(mac, portSpec, serviceSpecs, osFP, vendorHint)
			if err != nil {
				return err
			}

			result := inference.NewEngine(table).Infer(facts)

			if mode != format.ModeText {
				return out.PrintStructured(struct {
					Facts          inference.HostFacts            `json:"facts" yaml:"facts"`
					Classification inference.ClassificationResult `json:"classification" yaml:"classification"`
				}{facts, result})
			}
			return out.PrintLine(inference.Describe(result))
		},
	}

	cmd.Flags().StringVar(&mac, "mac", "", "Device MAC address (empty means unknown)")
	cmd.Flags().StringVar(&portSpec, "ports", "", "Open ports (e.g. '22,80' or '8000-8010')")
	cmd.Flags().StringSliceVar(&serviceSpecs, "service", nil, "Override service name for a port (port=name, repeatable)")
	cmd.Flags().StringVar(&osFP, "os", "", "OS fingerprint text")
	cmd.Flags().StringVar(&vendorHint, "vendor", "", "MAC vendor hint")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")

	return cmd
}

// buildFacts assembles HostFacts from the classify flags.
func buildFacts(mac, portSpec string, serviceSpecs []string, osFP, vendorHint string) (inference.HostFacts, error) {
	facts := inference.HostFacts{
		MACAddress:    mac,
		OSFingerprint: osFP,
		VendorHint:    vendorHint,
	}
	if facts.MACAddress == "" {
		facts.MACAddress = inference.MACUnknown
	}

	overrides := make(map[int]string, len(serviceSpecs))
	for _, spec := range serviceSpecs {
		parts := strings.SplitN(spec, "=", 2)
		if len(parts) != 2 {
			return inference.HostFacts{}, fmt.Errorf("invalid service override %q (expected port=name)", spec)
		}
		port, err := cast.ToIntE(strings.TrimSpace(parts[0]))
		if err != nil {
			return inference.HostFacts{}, fmt.Errorf("invalid service override %q: %w", spec, err)
		}
		overrides[port] = strings.TrimSpace(parts[1])
	}

	if portSpec != "" {
		ports, err := scanner.ParsePorts(portSpec)
		if err != nil {
			return inference.HostFacts{}, err
		}
		for _, p := range ports {
			service := scanner.ServiceName(p)
			if override, ok := overrides[p]; ok {
				service = override
			}
			facts.OpenPorts = append(facts.OpenPorts, inference.PortRecord{
				Port:     p,
				Protocol: "tcp",
				Service:  service,
			})
		}
	}

	return facts, nil
}
