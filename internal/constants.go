/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	Version   = "0.1.0"
	UserAgent = "crtournamentdashboard/" + Version + " (+https://github.com/diwanliwe/crtournamentdashboard)"

	// Backend deployment consumed when CRDASH_API_BASE is unset.
	DefaultAPIBase = "https://crtournamentdashboard.vercel.app"
	APIBaseEnvVar  = "CRDASH_API_BASE"

	RoyaleWebBase  = "https://royaleapi.com"
	WebCacheBucket = "bopmatic-crtournamentdashboard-prod-webcache"
)
