// Package ontstat provides a client for the web management interface of
// MitraStar GPON ONT devices.
package ontstat

import (
	"time"
)

// ConfigError is returned for a bad or missing credentials file.
type ConfigError struct {
	Reason string
	Err    error
}

// Error satisfies the error interface.
func (e *ConfigError) Error() string { return errStr("config", e.Reason, e.Err) }

// Unwrap returns the underlying error, if any.
func (e *ConfigError) Unwrap() error { return e.Err }

// AuthError is returned when the login handshake fails. Reason carries the
// cause reported by the device when one is available.
type AuthError struct {
	Reason string
	Err    error
}

// Error satisfies the error interface.
func (e *AuthError) Error() string { return errStr("auth", e.Reason, e.Err) }

// Unwrap returns the underlying error, if any.
func (e *AuthError) Unwrap() error { return e.Err }

// ParseError is returned for an unexpected or incomplete device response.
type ParseError struct {
	Reason string
	Err    error
}

// Error satisfies the error interface.
func (e *ParseError) Error() string { return errStr("parse", e.Reason, e.Err) }

// Unwrap returns the underlying error, if any.
func (e *ParseError) Unwrap() error { return e.Err }

func errStr(kind, reason string, err error) string {
	if err != nil {
		return kind + ": " + reason + ": " + err.Error()
	}
	return kind + ": " + reason
}

// Credentials is the username/password pair used for the login handshake.
type Credentials struct {
	Username string
	Password string
}

// DeviceInfo is the information reported by the device. It is built once
// per invocation and not mutated afterwards. String fields the device did
// not report are empty and render as unavailable.
type DeviceInfo struct {
	ONTID                  string            `json:"ont_id"`
	VendorID               string            `json:"vendor_id"`
	SerialNumber           string            `json:"serial_number"`
	GPONSerialNumber       string            `json:"gpon_serial_number"`
	MACAddress             string            `json:"mac_address"`
	HardwareVersion        string            `json:"hardware_version"`
	ActiveSoftwareVersion  string            `json:"active_software_version"`
	StandbySoftwareVersion string            `json:"standby_software_version"`
	CountryCode            string            `json:"country_code"`
	ConnectionStatus       string            `json:"connection_status"`
	OpticalPowerDBM        float64           `json:"optical_power_dbm"`
	FetchedAt              time.Time         `json:"fetched_at"`
	ExtraFields            map[string]string `json:"extra_fields,omitempty"`
}
