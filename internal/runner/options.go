package runner

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/probe"
	"github.com/projectdiscovery/lanscanner/pkg/peerdiscovery/scanner"
	"github.com/projectdiscovery/lanscanner/pkg/version"
	envutil "github.com/projectdiscovery/utils/env"
)

var au *aurora.Aurora

var (
	DeviceEnv   = envutil.GetEnvOrDefault("LANSCANNER_DEVICE", "")
	ScanTypeEnv = envutil.GetEnvOrDefault("LANSCANNER_SCAN_TYPE", "C")
	VerboseEnv  = envutil.GetEnvOrDefault("LANSCANNER_VERBOSE", "")
)

const (
	defaultPort      = scanner.DefaultPort
	defaultTimeoutMs = int(scanner.DefaultTimeout / time.Millisecond)
)

// Options contains the configuration options for a scan.
type Options struct {
	Device       string
	ScanType     string
	Port         int
	Timeout      int // milliseconds
	Unprivileged bool

	JSON     bool
	ShowDown bool
	MAC      bool
	NoColor  bool
	Silent   bool
	Verbose  bool
	Debug    bool
	Version  bool

	kind probe.Kind
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`lanscanner discovers live hosts on the local IPv4 subnet`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.Device, "device", "d", DeviceEnv, "network interface to scan (default: first live interface)"),
		flagSet.StringVarP(&options.ScanType, "scan-type", "s", ScanTypeEnv, "scan type (C = tcp connect, I = icmp echo)"),
		flagSet.IntVarP(&options.Port, "port", "p", defaultPort, "port probed by connect scans (0 = random)"),
		flagSet.IntVarP(&options.Timeout, "timeout", "t", defaultTimeoutMs, "per host timeout in milliseconds"),
		flagSet.BoolVarP(&options.Unprivileged, "unprivileged", "up", false, "use unprivileged (datagram) icmp sockets"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&options.JSON, "json", "j", false, "write results as json lines"),
		flagSet.BoolVarP(&options.ShowDown, "show-down", "sd", false, "also show hosts that did not answer"),
		flagSet.BoolVarP(&options.MAC, "mac", "m", false, "show mac address of up hosts from the arp cache"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Debug, "debug", false, "show debug output"),
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if verbose, err := strconv.ParseBool(VerboseEnv); err == nil && verbose && !options.Verbose {
		options.Verbose = true
	}

	// configure aurora for logging
	au = aurora.New(aurora.WithColors(true))

	options.configureOutput()

	if !options.Silent && !options.JSON {
		showBanner()
	}

	if options.Version {
		gologger.Info().Msgf("%s\n", versionLine())
		os.Exit(0)
	}

	for _, warning := range options.validate() {
		gologger.Warning().Msg(warning)
	}

	return options
}

func versionLine() string {
	return fmt.Sprintf("Current lanscanner version: %s", version.GetVersion())
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	// json lines own stdout, everything else is noise
	if options.Silent || options.JSON {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

// validate replaces unusable values with their defaults and returns one
// warning per replaced value.
func (options *Options) validate() []string {
	var warnings []string

	kind, err := probe.ParseKind(options.ScanType)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Invalid scan type %q, using connect scan", options.ScanType))
		kind = probe.KindConnect
	}
	options.kind = kind

	if options.Port < 0 || options.Port > 65535 {
		warnings = append(warnings, fmt.Sprintf("Invalid port %d, using %d", options.Port, defaultPort))
		options.Port = defaultPort
	}
	if options.Timeout <= 0 {
		warnings = append(warnings, fmt.Sprintf("Invalid timeout %dms, using %dms", options.Timeout, defaultTimeoutMs))
		options.Timeout = defaultTimeoutMs
	}
	if options.Unprivileged && options.kind != probe.KindICMPEcho {
		warnings = append(warnings, "-unprivileged only applies to icmp echo scans")
	}
	return warnings
}

// scannerOptions converts validated options for the scan engine.
func (options *Options) scannerOptions() *scanner.Options {
	return &scanner.Options{
		Kind:         options.kind,
		Port:         uint16(options.Port),
		Timeout:      time.Duration(options.Timeout) * time.Millisecond,
		Unprivileged: options.Unprivileged,
	}
}
