/*
Package geometry provides the rectangle and polygon types used for all the
spatial reasoning of the vehicle counter.

Rectangle intersection follows a fixed interval precedence where intervals
touching at a single point do not intersect.  Polygon intersection areas are
calculated with the Clipper library.
*/
package geometry
