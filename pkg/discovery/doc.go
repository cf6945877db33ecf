// Package discovery implements mDNS/DNS-SD advertisement and browsing for
// servients.
//
// A servient registers one instance of the _wot-servient._tcp service in the
// local domain. The instance name is the servient hostname, the port is the
// Thing Description catalogue port, and the TXT records carry:
//
//   - path: the catalogue path (required, absolute)
//   - things: the number of exposed things
//
// # Advertising
//
// MDNSAdvertiser keeps at most one registration alive. Advertise replaces
// the running registration, Update rewrites its TXT records in place (for
// example after a thing was added), and Stop withdraws it.
//
// # Browsing
//
// MDNSBrowser aggregates answers from all interfaces: addresses seen for the
// same instance are merged into one ServientService, which is delivered once
// per browse. Find narrows a browse to a single instance name.
package discovery
