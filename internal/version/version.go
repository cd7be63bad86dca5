// ABOUTME: Version constants for the rac-go client
// ABOUTME: Identifies the product in logs and CLI output
package version

const (
	// Version is the client release version.
	Version = "0.1.0"
	// Product is the client product name.
	Product = "rac-go"
	// Manufacturer identifies the project publishing the client.
	Manufacturer = "RAC Protocol"
)
