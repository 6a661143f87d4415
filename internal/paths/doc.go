// Provides default locations for build workspaces and artifact output.
//
// Workspaces default to the XDG cache directory so repeated runs reuse the
// same tree (each project's workspace is still reset at the start of a run).
package paths
