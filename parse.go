package ontstat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// JavaScript variables embedded in the device pages.
var jsVarRE = map[string]*regexp.Regexp{
	"gponPasswd":  regexp.MustCompile(`var\s+gponPasswd\s*=\s*"([^"]*)"`),
	"gponStatus":  regexp.MustCompile(`var\s+gponStatus\s*=\s*"([^"]*)"`),
	"countryCode": regexp.MustCompile(`var\s+countryCode\s*=\s*"([^"]*)"`),
}

// Field labels used by the firmware on install_info.cgi.
const (
	labelONTID                  = "Aktuelle ONT ID"
	labelVendorID               = "Händler ID"
	labelSerialNumber           = "Seriennummer"
	labelGPONSerialNumber       = "GPON-Seriennummer"
	labelMACAddress             = "MAC-Adresse"
	labelHardwareVersion        = "Hardwareversion"
	labelActiveSoftwareVersion  = "Aktive Softwareversion"
	labelStandbySoftwareVersion = "Standby Softwareversion"
	labelCountryCode            = "Landesvorwahl"
	labelOpticalPower           = "Optische Leistung (dBm)"
)

// opticalPowerRE accepts an optionally signed decimal value.
var opticalPowerRE = regexp.MustCompile(`^[-+]?\d+(?:\.\d+)?$`)

// parseJSVars extracts the known JavaScript variable values from a page.
func parseJSVars(src string) map[string]string {
	vars := map[string]string{}
	for name, re := range jsVarRE {
		if m := re.FindStringSubmatch(src); m != nil {
			vars[name] = m[1]
		}
	}
	return vars
}

// parseInstallInfo extracts the device information from the
// install_info.cgi page. Every documented field on the page is required;
// a structurally absent one fails the parse rather than defaulting.
func parseInstallInfo(src string) (*DeviceInfo, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, &ParseError{Reason: "invalid html", Err: err}
	}
	values := formGroupValues(doc)

	info := &DeviceInfo{}
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{labelVendorID, &info.VendorID},
		{labelSerialNumber, &info.SerialNumber},
		{labelGPONSerialNumber, &info.GPONSerialNumber},
		{labelMACAddress, &info.MACAddress},
		{labelHardwareVersion, &info.HardwareVersion},
		{labelActiveSoftwareVersion, &info.ActiveSoftwareVersion},
		{labelStandbySoftwareVersion, &info.StandbySoftwareVersion},
		{labelCountryCode, &info.CountryCode},
	} {
		v, ok := values[f.label]
		if !ok || v == "" {
			return nil, &ParseError{Reason: fmt.Sprintf("missing field %q", f.label)}
		}
		*f.dst = v
		delete(values, f.label)
	}

	raw, ok := values[labelOpticalPower]
	if !ok || raw == "" {
		return nil, &ParseError{Reason: fmt.Sprintf("missing field %q", labelOpticalPower)}
	}
	delete(values, labelOpticalPower)
	power, err := parseOpticalPower(raw)
	if err != nil {
		return nil, err
	}
	info.OpticalPowerDBM = power

	// the ONT ID (PLOAM password) lives in a JavaScript variable, with
	// the labeled input as fallback
	info.ONTID = parseJSVars(src)["gponPasswd"]
	if v, ok := values[labelONTID]; ok {
		if info.ONTID == "" {
			info.ONTID = v
		}
		delete(values, labelONTID)
	}
	if info.ONTID == "" {
		return nil, &ParseError{Reason: `missing field "ONT ID"`}
	}

	// carry unmapped labels through
	if len(values) != 0 {
		info.ExtraFields = map[string]string{}
		for label, v := range values {
			info.ExtraFields[extraKey(label)] = v
		}
	}

	return info, nil
}

// parseOpticalPower parses an optical power reading, tolerating a sign
// and fixed decimal precision.
func parseOpticalPower(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if !opticalPowerRE.MatchString(raw) {
		return 0, &ParseError{Reason: fmt.Sprintf("invalid optical power %q", raw)}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Reason: fmt.Sprintf("invalid optical power %q", raw), Err: err}
	}
	return v, nil
}

// parseIdentifier extracts the status values from the
// install_identifier.cgi page.
func parseIdentifier(src string) map[string]string {
	return parseJSVars(src)
}

// mergeIdentifier folds identifier page values into info. The page is
// authoritative for the connection status and a fallback for values the
// install info page did not report.
func mergeIdentifier(info *DeviceInfo, vars map[string]string) {
	if v, ok := vars["gponStatus"]; ok {
		info.ConnectionStatus = v
	}
	if info.CountryCode == "" {
		info.CountryCode = vars["countryCode"]
	}
	if info.ONTID == "" {
		info.ONTID = vars["gponPasswd"]
	}
}

// extraKey normalizes an unmapped label into a snake_case key.
func extraKey(label string) string {
	key := strings.ToLower(label)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// formGroupValues collects label to readonly input value pairs from the
// page's form groups.
func formGroupValues(doc *html.Node) map[string]string {
	values := map[string]string{}
	walk(doc, func(n *html.Node) {
		if !isElement(n, "div") || !hasClass(n, "form-group") {
			return
		}
		label := findElement(n, "label")
		if label == nil {
			return
		}
		input := findReadonlyInput(n)
		if input == nil {
			return
		}
		text := strings.TrimSpace(nodeText(label))
		value := attrValue(input, "value")
		if text == "" || value == "" {
			return
		}
		values[text] = value
	})
	return values
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func isElement(n *html.Node, name string) bool {
	return n.Type == html.ElementNode && n.Data == name
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attrValue(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

func findElement(n *html.Node, name string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) {
		if found == nil && c != n && isElement(c, name) {
			found = c
		}
	})
	return found
}

func findReadonlyInput(n *html.Node) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) {
		if found == nil && isElement(c, "input") && hasAttr(c, "readonly") {
			found = c
		}
	})
	return found
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
