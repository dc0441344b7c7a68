// Package detector provides object detectors for video frames.
package detector
