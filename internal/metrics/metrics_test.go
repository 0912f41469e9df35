package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ProfileCacheTotal.WithLabelValues("hit"))
	ProfileCacheTotal.WithLabelValues("hit").Inc()
	after := testutil.ToFloat64(ProfileCacheTotal.WithLabelValues("hit"))
	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %v", after-before)
	}
}
