// Package sla synthesises support structures for resin prints.
//
// A support tree is built from a set of support points and an indexed mesh of the object.
// Every point gets a pillar standing on the build platform; a pad (base plate) can then be
// added below groups of pillars that are close to each other. The synthesis is long running
// and reports its progress and honours stop requests through a Controller.
package sla
