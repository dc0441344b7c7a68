/*
go-trafficcount counts the vehicles passing through and queueing in the
zones of a road intersection from recorded traffic camera video.

Vehicles are detected with a YOLOv3 model every few frames and followed
between detections by single object trackers.  Detections are matched to
tracked vehicles by solving the linear assignment problem on the distance
between their center points, which gives every vehicle a stable ID while in
view.  Zone counters then record per frame how many vehicles are queued in a
zone and how many distinct vehicles of each class crossed a zone.

See the command in the example subdirectory for usage.
*/
package trafficcount
