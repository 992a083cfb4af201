// Package dataset extracts a UTIAS multi-robot cooperative localisation and
// mapping (MRCLAM) dataset directory into a validated, read-only Dataset.
//
// A dataset directory holds two shared tables and three streams per robot:
//
//	Barcodes.dat               index, code
//	Landmark_Groundtruth.dat   id, x, y, x_std_dev, y_std_dev
//	Robot<N>_Groundtruth.dat   time, x, y, orientation
//	Robot<N>_Odometry.dat      time, forward_velocity, angular_velocity
//	Robot<N>_Measurement.dat   time, subject, range, bearing
//
// Fields are tab separated, lines starting with '#' are comments and any
// other whitespace is ignored. Every landmark must resolve to a barcode, and
// measurement lines whose timestamps fall within the merge tolerance of an
// existing epoch are folded into that epoch.
//
// Extraction attempts every step even after a failure and reports all
// failures together in an *ExtractionError.
package dataset
