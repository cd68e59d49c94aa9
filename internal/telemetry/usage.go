package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

// Usage event names reported to PostHog, fire-and-forget (spec §5: "no
// operation blocks on I/O within the core; logging is treated as
// fire-and-forget").
const (
	CompileStarted   = "qpuc:compile_started"
	CompileCompleted = "qpuc:compile_completed"
	CompileFailed    = "qpuc:compile_failed"
)

var (
	// PublicKey is the PostHog project key; metrics are a no-op when empty.
	PublicKey string

	enableMetrics bool
	driverVersion string
)

// Init records whether metrics are enabled for this run.
func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

// SetVersion records the driver version attached to every reported event.
func SetVersion(version string) {
	driverVersion = version
}

func envFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vc4c-go", ".env"), nil
}

func createEnvFile() {
	envFile, err := envFilePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error getting user home directory:", err)
		return
	}
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(envFile), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, "Error creating directory:", err)
			return
		}
		env := map[string]string{"uuid": uuid.New().String()}
		if err := godotenv.Write(env, envFile); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing install id file:", err)
		}
	}
}

// LoadEnvFile creates the per-user install-id file if missing and loads it
// into the process environment.
func LoadEnvFile() {
	createEnvFile()
	envFile, err := envFilePath()
	if err != nil {
		return
	}
	_ = godotenv.Load(envFile)
}

// ReportEvent sends a bare usage event.
func ReportEvent(event string) {
	ReportEventWithProperties(event, nil)
}

// ReportEventWithProperties sends event with additional properties. No
// source paths, kernel names, or IR contents may be included here (spec §5's
// fire-and-forget logging is for timing/counts only, never source content).
func ReportEventWithProperties(event string, properties map[string]interface{}) {
	if !enableMetrics || PublicKey == "" {
		return
	}
	disableGeoIP := false
	client, err := posthog.NewWithConfig(PublicKey, posthog.Config{
		Endpoint:     "https://us.i.posthog.com",
		DisableGeoIP: &disableGeoIP,
	})
	if err != nil {
		return
	}
	defer client.Close()

	props := posthog.NewProperties()
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("go_version", runtime.Version())
	if driverVersion != "" {
		props.Set("vc4c_go_version", driverVersion)
	}
	for k, v := range properties {
		props.Set(k, v)
	}

	_ = client.Enqueue(posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      event,
		Properties: props,
	})
}
