package share

// VERSION hal version
const VERSION = "0.1.0"

// PRVERSION hal PR commit
const PRVERSION = "DEV"

// BUILDNAME The name of the artifact
const BUILDNAME = "hal"
