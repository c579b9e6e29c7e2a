// Package challenge detects, solves and submits the proof-of-work gate that
// some package index deployments put in front of their search pages.
//
// # Protocol
//
//  1. The landing page embeds a script at /<path>/script.js ([Detect]).
//  2. The script carries a challenge literal with base, hash, hmac, expires
//     and token fields ([Parse]).
//  3. The answer is the two-character suffix s over [Alphabet] such that
//     hex(sha256(base+s)) equals hash ([Solve]).
//  4. The answer is posted as JSON to /<path>/fst-post-back; the response
//     sets the clearance cookie that later requests carry ([Gate.Pass]).
//
// Nothing is cached: every search run fetches and solves a fresh challenge
// when the index asks for one.
package challenge
