package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	out := logrus.New()
	out.SetOutput(&buf)
	lg := NewLogger(out)
	query := func() (string, int64) { return "SELECT * FROM orders WHERE order_ref = 'x'", 0 }

	lg.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	lg.Trace(context.Background(), time.Now(), query, errors.New("connection refused"))
	assert.Contains(t, buf.String(), "connection refused")
}

func TestLoggerReportsSlowQueries(t *testing.T) {
	var buf bytes.Buffer
	out := logrus.New()
	out.SetOutput(&buf)
	lg := NewLogger(out)

	lg.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Contains(t, buf.String(), "SLOW SQL")
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "mysql", "postgres"} {
		d, err := Dialector(&config.Config{DBDriver: driver})
		require.NoError(t, err)
		assert.NotNil(t, d)
	}
	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
