// Package driving defines the primary ports: the service interfaces
// offered to external actors such as the CLI or an API layer.
package driving
