package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSignInsTotal_Labels(t *testing.T) {
	c := SignInsTotal.WithLabelValues("local", ResultInvalidCredentials)
	before := testutil.ToFloat64(c)
	c.Inc()
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}

func TestSecretsSubmittedTotal(t *testing.T) {
	before := testutil.ToFloat64(SecretsSubmittedTotal)
	SecretsSubmittedTotal.Inc()
	if got := testutil.ToFloat64(SecretsSubmittedTotal); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}
