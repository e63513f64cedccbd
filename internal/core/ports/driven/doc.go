// Package driven declares the ports the core drives: SharePoint, storage,
// caching, search and language models.
package driven
