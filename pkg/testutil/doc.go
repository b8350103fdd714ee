// Package testutil provides fixtures for testing postgen components.
//
// Key components:
//   - TestEnvironment: a project root on an in-memory or temporary
//     filesystem, cleaned up with the test
//   - FileTree: declarative file layout, nested or with slash paths
//   - ProjectTree: a trimmed rendering of the Django template with every
//     optional feature present and every secret marker in place
package testutil
