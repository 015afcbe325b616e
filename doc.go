/*
Package grove grows ID3 decision trees from datasets of categorical samples.

Trees are grown by recursively splitting the training data on the attribute
with the highest information gain among a set of candidates. Package forest
builds ensembles of such trees on bootstrap samples, and package cluster
distributes that work among several processes.
*/
package grove
