package ontstat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func testInfo() *DeviceInfo {
	return &DeviceInfo{
		ONTID:                  "0100000000",
		VendorID:               "MitraStar",
		SerialNumber:           "MSTC91234567",
		GPONSerialNumber:       "4D53544391234567",
		MACAddress:             "10:62:EB:A1:B2:C3",
		HardwareVersion:        "GPT-2541GNAC",
		ActiveSoftwareVersion:  "108BWL0b16",
		StandbySoftwareVersion: "108BWL0b13",
		CountryCode:            "49",
		ConnectionStatus:       "O5",
		OpticalPowerDBM:        -15.0,
		FetchedAt:              time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		ExtraFields:            map[string]string{"bootloader_version": "1.0.38"},
	}
}

// parseTableRows reads a rendered table back into field/value pairs.
func parseTableRows(out string) map[string]string {
	rows := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}
		field := strings.TrimSpace(parts[1])
		value := strings.TrimSpace(parts[2])
		if field == "" || strings.EqualFold(field, "field") {
			continue
		}
		rows[field] = value
	}
	return rows
}

func TestPresentersRoundTrip(t *testing.T) {
	info := testInfo()

	var jsonBuf, tableBuf bytes.Buffer
	if err := WriteJSON(&jsonBuf, info); err != nil {
		t.Fatalf("could not render json: %v", err)
	}
	if err := WriteTable(&tableBuf, info); err != nil {
		t.Fatalf("could not render table: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(jsonBuf.Bytes(), &m); err != nil {
		t.Fatalf("rendered json does not parse: %v", err)
	}
	rows := parseTableRows(tableBuf.String())

	for label, key := range map[string]string{
		"ONT ID":                   "ont_id",
		"Vendor ID":                "vendor_id",
		"Serial Number":            "serial_number",
		"GPON Serial Number":       "gpon_serial_number",
		"MAC Address":              "mac_address",
		"Hardware Version":         "hardware_version",
		"Active Software Version":  "active_software_version",
		"Standby Software Version": "standby_software_version",
		"Country Code":             "country_code",
		"Connection Status":        "connection_status",
	} {
		want, _ := m[key].(string)
		if rows[label] != want {
			t.Errorf("table %q = %q, json %q = %q", label, rows[label], key, want)
		}
	}

	power, _ := m["optical_power_dbm"].(float64)
	if rows["Optical Power (dBm)"] != fmt.Sprintf("%.2f", power) {
		t.Errorf("table optical power %q, json %v", rows["Optical Power (dBm)"], power)
	}
	if rows["Bootloader Version"] != "1.0.38" {
		t.Errorf("table extra field = %q, want %q", rows["Bootloader Version"], "1.0.38")
	}
}

func TestTableUnavailableValues(t *testing.T) {
	info := testInfo()
	info.ConnectionStatus = ""
	info.ExtraFields = nil

	var buf bytes.Buffer
	if err := WriteTable(&buf, info); err != nil {
		t.Fatalf("could not render table: %v", err)
	}
	rows := parseTableRows(buf.String())
	if rows["Connection Status"] != "-" {
		t.Errorf("connection status rendered as %q, want %q", rows["Connection Status"], "-")
	}
	if rows["Fetched At"] != "2024-05-01 12:30:00" {
		t.Errorf("fetched at rendered as %q", rows["Fetched At"])
	}
}

func TestJSONStableKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testInfo()); err != nil {
		t.Fatalf("could not render json: %v", err)
	}
	out := buf.String()
	for _, key := range []string{
		`"ont_id"`, `"vendor_id"`, `"serial_number"`, `"gpon_serial_number"`,
		`"mac_address"`, `"hardware_version"`, `"active_software_version"`,
		`"standby_software_version"`, `"country_code"`, `"connection_status"`,
		`"optical_power_dbm"`, `"fetched_at"`, `"extra_fields"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("json output missing key %s", key)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("json output not newline terminated")
	}
}
