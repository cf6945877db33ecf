package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT creates the TXT records for a servient advertisement.
func EncodeTXT(info *ServientInfo) TXTRecordMap {
	path := info.Path
	if path == "" {
		path = "/"
	}

	return TXTRecordMap{
		TXTKeyPath:   path,
		TXTKeyThings: strconv.Itoa(info.Things),
	}
}

// DecodeTXT parses the TXT records of a servient advertisement. The path is
// required; a thing count that is absent or unparseable decodes as zero.
func DecodeTXT(txt TXTRecordMap) (*ServientInfo, error) {
	info := &ServientInfo{}

	var ok bool
	info.Path, ok = txt[TXTKeyPath]
	if !ok || info.Path == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedTXT, TXTKeyPath)
	}
	if !strings.HasPrefix(info.Path, "/") {
		return nil, fmt.Errorf("%w: path %q is not absolute", ErrMalformedTXT, info.Path)
	}

	if tStr, ok := txt[TXTKeyThings]; ok {
		if n, err := strconv.Atoi(tStr); err == nil && n >= 0 {
			info.Things = n
		}
	}

	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings, the format mDNS libraries expect.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a
// TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: instance name", ErrMissingRequired)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
