// package pipeline orchestrates the chart-to-playlist resolution flow.
//
// The Engine runs the stages strictly forward: fetch the dated chart, acquire
// one search token for the whole pass, resolve each entry in chart order, and
// finally publish the resolved URIs as a new playlist. Operations emit
// progress updates via channels for non-blocking status reporting to the CLI.
package pipeline
