/*
Package pipeline runs the per frame counting of a video.

Each frame goes through the same ordered stages: detect and match objects
on detection frames or advance the trackers on the frames between, retire
objects leaving through the site boundary, then update the unique counters
with the tracked objects and the presence counters with the frame's boxes.
*/
package pipeline
