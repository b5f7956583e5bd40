/*
Package los classifies scheduled trips into Level of Service buckets.

A Level of Service (LOS) is a categorical rating of how frequently a trip
group runs, derived from the average headway over a time window.

# Buckets

The default table has seven contiguous buckets, best to worst:

	A           (-1, 600]
	B          (600, 900]
	C          (900, 1200]
	D         (1200, 1800]
	E         (1800, 3600]
	F         (3600, 7200]
	No service (7200, +Inf]

Bounds are in seconds. A table is validated when it is built: gaps,
overlaps or a missing +Inf upper bound are configuration errors.

# Basic Usage

	table := los.DefaultTable()
	c := los.NewClassifier(table)

	res, err := c.Classify(tripStarts, los.DefaultWindow)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(res.Bucket.Name, res.Headway)

The window is left-open and right-closed: a departure at exactly
Window.Start is not counted, one at Window.End is.
*/
package los
