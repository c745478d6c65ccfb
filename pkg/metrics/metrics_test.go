package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	// Register the exporter's metric families with the default registry.
	_ "github.com/steinacher/flypdf/pkg/confluence"
	_ "github.com/steinacher/flypdf/pkg/download"
	_ "github.com/steinacher/flypdf/pkg/exporter"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Fatal("Registry is nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry is not the default Prometheus registerer")
	}
}

func TestRegisteredFamilies(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() returned error: %v", err)
	}

	byName := make(map[string]bool, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = true
	}

	// Vec families stay invisible until a label combination is observed,
	// so only the plain counters and histograms are checked here.
	for _, name := range []string{
		"flypdf_poll_probes_total",
		"flypdf_task_wait_seconds",
		"flypdf_download_bytes_total",
		"flypdf_page_duration_seconds",
	} {
		if !byName[name] {
			t.Errorf("metric family %s not registered", name)
		}
	}
}

func TestFamilyHelpText(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() returned error: %v", err)
	}

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "flypdf_") {
			continue
		}
		if mf.GetHelp() == "" {
			t.Errorf("metric family %s has no help text", mf.GetName())
		}
	}
}
