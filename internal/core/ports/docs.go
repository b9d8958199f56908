// Package ports defines the contracts between the application core and its
// adapters: persistence for the order aggregate, read-only access to the
// catalog, account and config stores, the external payment gateway, and the
// unit of work transaction boundary.
package ports
