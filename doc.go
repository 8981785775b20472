// Copyright 2026 mediaops. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package jsonbinsheets publishes the media buyer and campaign datasets held in JSONBin as Google Sheets
reports.

jsonbin-sheets can be used from the command line but is really intended to be run from a cron job. Each run:

  - fetches the campaign and media bins from JSONBin
  - normalises them into fixed-schema tables
  - publishes the tables and the media buyer summary and campaign performance reports to the source spreadsheet
  - copies the published tabs to the target spreadsheet and adds the report charts there

The report formulas, number formats and charts are laid out from the row counts of each run, so the
reports always cover exactly the published data.

jsonbin-sheets supports the following commands:

  - publish (the default), to run the pipeline, optionally with --force to recreate existing spreadsheets
  - version, to display the current version
*/
package jsonbinsheets
