// Package rules evaluates constraint expressions against a snapshot of named
// values. Three engines are available: expr (default), cel, and js (built
// with the js_eval tag).
package rules
