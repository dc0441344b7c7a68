/*
Package tracker keeps the identity of detected objects across the frames of a
video.

Objects are detected every few frames only.  Between detection rounds each
object is followed by a single object Tracker, and on every detection round
the Matcher assigns the new detections to the tracked objects by solving the
linear assignment problem (LAPJV) on the distances between their center
points.
*/
package tracker
