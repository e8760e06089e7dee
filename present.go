package ontstat

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/olekukonko/tablewriter"
)

// timeFormat is the table rendering of the fetch timestamp.
const timeFormat = "2006-01-02 15:04:05"

// WriteJSON renders info to w as an indented JSON object with stable
// snake_case keys.
func WriteJSON(w io.Writer, info *DeviceInfo) error {
	buf, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(buf, '\n'))
	return err
}

// WriteTable renders info to w as a two column field/value table.
func WriteTable(w io.Writer, info *DeviceInfo) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.AppendBulk(info.rows())
	table.Render()
	return nil
}

// rows returns the table rows in fixed field order, with unavailable
// values rendered as "-" and extra fields appended in sorted order.
func (info *DeviceInfo) rows() [][]string {
	rows := [][]string{
		{"ONT ID", orDash(info.ONTID)},
		{"Vendor ID", orDash(info.VendorID)},
		{"Serial Number", orDash(info.SerialNumber)},
		{"GPON Serial Number", orDash(info.GPONSerialNumber)},
		{"MAC Address", orDash(info.MACAddress)},
		{"Hardware Version", orDash(info.HardwareVersion)},
		{"Active Software Version", orDash(info.ActiveSoftwareVersion)},
		{"Standby Software Version", orDash(info.StandbySoftwareVersion)},
		{"Country Code", orDash(info.CountryCode)},
		{"Connection Status", orDash(info.ConnectionStatus)},
		{"Optical Power (dBm)", strconv.FormatFloat(info.OpticalPowerDBM, 'f', 2, 64)},
		{"Fetched At", info.FetchedAt.Format(timeFormat)},
	}

	keys := make([]string, 0, len(info.ExtraFields))
	for k := range info.ExtraFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{titleKey(k), info.ExtraFields[k]})
	}
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// titleKey turns a snake_case extra field key back into a display label.
func titleKey(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
