/*
Package counter counts vehicles in the zones of a road intersection.

Presence counters recount the vehicles inside their zone on every frame,
which measures how long queues are.  Unique counters count each tracked
vehicle once when it enters the zone, which measures traffic flow through
a crossing.  Both record one value per frame so the series of every counter
line up with the frames of the video.
*/
package counter
