/*
Package video provides the frame sources of the counting pipeline.

Capture decodes video files with OpenCV.  ImageDir reads videos that have
been extracted to a directory of image files, and Mats converts its frames
for use with the OpenCV based detector and trackers.
*/
package video
