// Package utils provides small shared helpers for transit-los.
//
// It contains:
//   - Conversion between seconds since midnight and clock strings
//   - Service-hour span formatting for trip lists
package utils
