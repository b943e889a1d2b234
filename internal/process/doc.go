// Package process manages the lifetime of child process trees: Chrome
// launched by the renderer and the external crop tools.
package process
