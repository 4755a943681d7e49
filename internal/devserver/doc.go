// Package devserver is the local development server.
//
// In static mode it serves the dist directory; otherwise it reverse-proxies
// the WordPress dev host. HTML pages get a small client injected that
// listens on the Socket.IO reload bridge, and the server implements
// registry.Reloader so tasks can push reload events to every connected
// browser.
package devserver
