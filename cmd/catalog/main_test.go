package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/domain/loan"
)

func TestRunLoan_Fixture(t *testing.T) {
	var out bytes.Buffer
	err := runLoan([]string{"-price", "RD$ 3,000,000", "-down", "600000", "-bank", "scotiabank", "-years", "20"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "240 meses")
	assert.Contains(t, out.String(), "14.50%")
}

func TestRunLoan_InvalidInput(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runLoan([]string{"-price", "abc"}, &out))
	assert.ErrorIs(t, runLoan([]string{"-price", "100000", "-bank", "custom", "-rate", "0"}, &out), loan.ErrInvalidCustomRate)
}

func TestRunQuery_PrintsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"properties": [
			{"_id": "65f0c0ffee00000000000001", "title": "Casa Gazcue", "type": "Casa", "saleType": "Venta", "price": 200000},
			{"_id": "65f0c0ffee00000000000002", "title": "Solar Bávaro", "type": "Solar", "saleType": "Venta", "price": 90000}
		]}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := runQuery(context.Background(), []string{"-api", srv.URL, "-type", "solar"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Solar Bávaro")
	assert.NotContains(t, out.String(), "Casa Gazcue")
	assert.Contains(t, out.String(), "page 1 of 1, 1 results")
}
