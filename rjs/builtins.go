package rjs

// Built-in str/vec instance methods and the cacheSet/cacheGet/... and
// dbCreateEntry/dbGetAll/... global functions (spec §6) are dispatched in
// interp.go; this file is reserved for any pure helper logic those
// dispatchers need that doesn't belong on Value itself.
