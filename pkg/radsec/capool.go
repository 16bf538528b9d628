package radsec

import (
	"crypto/x509"
	"fmt"
	"os"
)

func loadCAPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("radsec: no certificates found in %s", path)
	}
	return pool, nil
}
