package main

import "time"

const ShutdownTimeout = 15 * time.Second
