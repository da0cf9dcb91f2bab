package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ptzctl/internal/client"
	"ptzctl/internal/driver"
)

// Variables to hold flag values
var (
	expTargets    string
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// fleetTarget is one camera under observation.
type fleetTarget struct {
	ip    string
	model string
	cam   *client.CameraClient
}

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit    chan struct{}
	server  *http.Server
	targets []*fleetTarget
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	registry := prometheus.NewRegistry()
	registry.MustRegister(&FleetCollector{Targets: p.targets})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	fmt.Printf("ptzctl exporter listening on %s (%d cameras)\n", addr, len(p.targets))

	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("http server error")
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR LOGIC ---

type FleetCollector struct {
	Targets []*fleetTarget
	Mutex   sync.Mutex
}

var (
	cameraUpDesc = prometheus.NewDesc(
		"ptz_camera_up", "Camera answered an HTTP probe.", []string{"ip", "model"}, nil,
	)
	probeDurationDesc = prometheus.NewDesc(
		"ptz_camera_probe_duration_seconds", "Time taken by the camera probe.", []string{"ip", "model"}, nil,
	)
	authSchemeDesc = prometheus.NewDesc(
		"ptz_camera_auth_scheme_info", "Authentication scheme negotiated with the camera.", []string{"ip", "model", "scheme"}, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"ptz_scrape_duration_seconds", "Time taken to probe the whole fleet.", nil, nil,
	)
)

func (c *FleetCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cameraUpDesc
	ch <- probeDurationDesc
	ch <- authSchemeDesc
	ch <- scrapeDurationDesc
}

func (c *FleetCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()

	for _, t := range c.Targets {
		probeStart := time.Now()
		up := 1.0
		if err := t.cam.Probe(); err != nil {
			up = 0.0
			log.Debug().Err(err).Str("ip", t.ip).Msg("probe failed")
		}
		ch <- prometheus.MustNewConstMetric(cameraUpDesc, prometheus.GaugeValue, up, t.ip, t.model)
		ch <- prometheus.MustNewConstMetric(probeDurationDesc, prometheus.GaugeValue,
			time.Since(probeStart).Seconds(), t.ip, t.model)

		if scheme := t.cam.ResolvedScheme(); scheme != "" {
			ch <- prometheus.MustNewConstMetric(authSchemeDesc, prometheus.GaugeValue, 1,
				t.ip, t.model, string(scheme))
		}
	}

	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue,
		time.Since(start).Seconds())
}

// parseTargets turns "ip=model,ip=model" into resolved fleet targets.
func parseTargets(spec string) ([]*fleetTarget, error) {
	opts := client.Options{
		Username: viper.GetString("user"),
		Password: viper.GetString("password"),
		Auth:     viper.GetString("auth"),
		Timeout:  time.Duration(viper.GetFloat64("timeout") * float64(time.Second)),
	}

	var targets []*fleetTarget
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ip, model, ok := strings.Cut(entry, "=")
		if !ok || ip == "" || model == "" {
			return nil, fmt.Errorf("bad target %q (expected ip=model)", entry)
		}
		def, err := driver.Lookup(model)
		if err != nil {
			return nil, err
		}
		targets = append(targets, &fleetTarget{
			ip:    ip,
			model: model,
			cam:   client.New(def.Resolve(ip), opts, log),
		})
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets given")
	}
	return targets, nil
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start a Prometheus reachability exporter for a camera fleet",
	Long: `Starts a long-running HTTP server that probes each listed camera on
every scrape and exposes reachability metrics. Can be installed as a
system service.`,
	Example: `  ptzctl exporter --targets "10.0.0.20=panasonic-aw-he40,10.0.0.21=ptzoptics"`,
	Run: func(cmd *cobra.Command, args []string) {
		targets, err := parseTargets(expTargets)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		svcConfig := &service.Config{
			Name:        "ptzctl-exporter",
			DisplayName: "PTZ Camera Prometheus Exporter",
			Description: "Exposes PTZ camera reachability metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--targets", expTargets,
				"--port", expPort,
			},
		}
		if u := viper.GetString("user"); u != "" {
			svcConfig.Arguments = append(svcConfig.Arguments, "--user", u)
		}
		if pw := viper.GetString("password"); pw != "" {
			svcConfig.Arguments = append(svcConfig.Arguments, "--password", pw)
		}

		prg := &program{targets: targets}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// Handle service control actions (install, start, stop, uninstall)
		if serviceAction != "" {
			if err := service.Control(s, serviceAction); err != nil {
				fmt.Printf("Failed to %s service: %v\n", serviceAction, err)
				os.Exit(1)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// Run blocking, either under the service manager or interactively.
		if err := s.Run(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)

	exporterCmd.Flags().StringVar(&expTargets, "targets", "", "Comma separated ip=model pairs to probe")
	exporterCmd.Flags().StringVar(&expPort, "port", "9198", "Port to listen on")
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")

	_ = exporterCmd.MarkFlagRequired("targets")
}
