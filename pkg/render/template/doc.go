// Package template defines the text template seam used by the template
// renderer. The gotemplate subpackage configures go-template engines that
// satisfy it.
package template
