// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/items", "200"))
	RecordAPIRequest("GET", "/api/v1/items", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/items", "200"))

	if after-before != 1 {
		t.Errorf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordCatalogReload(t *testing.T) {
	RecordCatalogReload(map[string]int{"movies": 3, "music": 400}, nil)
	if got := testutil.ToFloat64(CatalogItems.WithLabelValues("music")); got != 400 {
		t.Errorf("catalog_items{music} = %v, want 400", got)
	}

	failures := testutil.ToFloat64(CatalogReloads.WithLabelValues("failure"))
	RecordCatalogReload(nil, errors.New("boom"))
	if got := testutil.ToFloat64(CatalogReloads.WithLabelValues("failure")); got != failures+1 {
		t.Errorf("failure counter = %v, want %v", got, failures+1)
	}
	if got := testutil.ToFloat64(CatalogItems.WithLabelValues("movies")); got != 3 {
		t.Errorf("failed reload should keep gauges, movies = %v", got)
	}
}

func TestRecordMusicLoad(t *testing.T) {
	fallback := testutil.ToFloat64(MusicLoads.WithLabelValues("fallback"))
	chunkErrs := testutil.ToFloat64(MusicChunkErrors)

	RecordMusicLoad("fallback", time.Second, errors.New("chunk 3 missing"))

	if got := testutil.ToFloat64(MusicLoads.WithLabelValues("fallback")); got != fallback+1 {
		t.Errorf("music_loads_total{fallback} = %v, want %v", got, fallback+1)
	}
	if got := testutil.ToFloat64(MusicChunkErrors); got != chunkErrs+1 {
		t.Errorf("music_chunk_errors_total = %v, want %v", got, chunkErrs+1)
	}
}

func TestMetricGathering(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
